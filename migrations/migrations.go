package migrations

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

type migration struct {
	name string
	run  func(ctx context.Context, database *mongo.Database) error
}

// Every step is idempotent, so the whole list runs on each start.
// The unique email index goes first so lower-casing can never merge two accounts.
var all = []migration{
	{"user_email_index", CreateUserEmailIndex},
	{"lowercase_user_emails", LowercaseUserEmails},
	{"appointment_indexes", CreateAppointmentIndexes},
	{"appointment_status_backfill", BackfillAppointmentStatus},
}

func Run(ctx context.Context, database *mongo.Database) error {
	for _, m := range all {
		if err := m.run(ctx, database); err != nil {
			return fmt.Errorf("%s: %w", m.name, err)
		}
	}
	return nil
}
