// handlers/collections.go
package handlers

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AnuragSingh014/castle-backend/database"
	"github.com/AnuragSingh014/castle-backend/events"
)

var (
	userCollection              *mongo.Collection
	adminCollection             *mongo.Collection
	investorCollection          *mongo.Collection
	dashboardCollection         *mongo.Collection
	investorDashboardCollection *mongo.Collection
	publishedCompanyCollection  *mongo.Collection

	bus *events.Bus
)

func InitCollections() {
	db := database.DB()
	userCollection = db.Collection("users")
	adminCollection = db.Collection("admins")
	investorCollection = db.Collection("investors")
	dashboardCollection = db.Collection("dashboards")
	investorDashboardCollection = db.Collection("investor_dashboards")
	publishedCompanyCollection = db.Collection("published_companies")
}

// SetBus installs the event bus used to fan out dashboard and approval
// notifications. Handlers publish best-effort; a nil bus disables events.
func SetBus(b *events.Bus) {
	bus = b
}

func publish(ev events.Event) {
	if bus != nil {
		bus.Publish(ev)
	}
}
