// Package catalog holds the built-in NorthWay schema migrations, in the order
// apply-all runs them.
package catalog

import (
	"github.com/northway/migrator/migration"
	"github.com/northway/migrator/types"
)

var migrations = []*migration.Migration{
	{
		ID:          "task_completed_at",
		Description: "Record when a task was completed",
		Steps: []migration.Step{
			&migration.AddColumn{Table: "task", Column: migration.Column{Name: "completed_at", Type: "TIMESTAMP"}},
		},
	},
	{
		ID:          "task_priority",
		Description: "Task priority and Eisenhower matrix flags",
		Steps: []migration.Step{
			&migration.AddColumn{Table: "task", Column: migration.Column{Name: "priority", Type: "VARCHAR(20)", Default: "media"}},
			&migration.AddColumn{Table: "task", Column: migration.Column{Name: "is_urgent", Type: "BOOLEAN", Default: false}},
			&migration.AddColumn{Table: "task", Column: migration.Column{Name: "is_important", Type: "BOOLEAN", Default: false}},
		},
	},
	{
		ID:          "asaas_billing",
		Description: "Subscription billing columns on company and the billing event log",
		Steps: []migration.Step{
			&migration.AddColumn{Table: "company", Column: migration.Column{Name: "plan_id", Type: "VARCHAR(50)"}},
			&migration.AddColumn{Table: "company", Column: migration.Column{Name: "asaas_customer_id", Type: "VARCHAR(50)"}},
			&migration.AddColumn{Table: "company", Column: migration.Column{Name: "payment_status", Type: "VARCHAR(20)", Default: "trial"}},
			&migration.AddColumn{Table: "company", Column: migration.Column{Name: "platform_inoperante", Type: "BOOLEAN", Default: false}},
			&migration.AddColumn{Table: "company", Column: migration.Column{Name: "overdue_since", Type: "TIMESTAMP"}},
			&migration.CreateTable{
				Table: "billing_event",
				Columns: []migration.Column{
					{Name: "id", Type: "INTEGER", AutoIncrement: true},
					{Name: "company_id", Type: "INTEGER"},
					{Name: "event_type", Type: "VARCHAR(50)", NotNull: true},
					{Name: "payload", Type: "JSON", DialectTypes: jsonb},
					{Name: "processed_at", Type: "TIMESTAMP"},
					{Name: "idempotency_key", Type: "VARCHAR(100)", Unique: true},
					{Name: "created_at", Type: "TIMESTAMP", Default: migration.Expr("CURRENT_TIMESTAMP")},
				},
				ForeignKeys: []migration.ForeignKey{
					{Columns: []string{"company_id"}, RefTable: "company", RefColumns: []string{"id"}},
				},
			},
		},
	},
	{
		ID:          "user_supabase_uid",
		Description: "External auth identifier with a unique index",
		Steps: []migration.Step{
			&migration.AddColumn{Table: "user", Column: migration.Column{Name: "supabase_uid", Type: "VARCHAR(100)"}},
			&migration.CreateIndex{Name: "idx_user_supabase_uid", Table: "user", Columns: []string{"supabase_uid"}, Unique: true},
		},
	},
	{
		ID:          "notifications",
		Description: "In-app notification table",
		Steps: []migration.Step{
			&migration.CreateTable{
				Table: "notification",
				Columns: []migration.Column{
					{Name: "id", Type: "INTEGER", AutoIncrement: true},
					{Name: "user_id", Type: "INTEGER", NotNull: true},
					{Name: "company_id", Type: "INTEGER", NotNull: true},
					{Name: "type", Type: "VARCHAR(50)", NotNull: true},
					{Name: "title", Type: "VARCHAR(200)", NotNull: true},
					{Name: "message", Type: "VARCHAR(500)"},
					{Name: "read", Type: "BOOLEAN", Default: false},
					{Name: "created_at", Type: "TIMESTAMP", Default: migration.Expr("CURRENT_TIMESTAMP")},
				},
				ForeignKeys: []migration.ForeignKey{
					{Columns: []string{"user_id"}, RefTable: "user", RefColumns: []string{"id"}},
					{Columns: []string{"company_id"}, RefTable: "company", RefColumns: []string{"id"}},
				},
			},
			&migration.CreateIndex{Name: "idx_notification_user", Table: "notification", Columns: []string{"user_id"}},
		},
	},
	{
		ID:          "transaction_payments",
		Description: "Partial payments and invoice links on transactions",
		Steps: []migration.Step{
			&migration.AddColumn{Table: "transaction", Column: migration.Column{Name: "amount_paid", Type: "FLOAT", Default: 0.0}},
			&migration.Backfill{Table: "transaction", Column: "amount_paid", Value: 0.0},
			&migration.AddColumn{Table: "transaction", Column: migration.Column{
				Name: "client_id", Type: "INTEGER", References: &migration.Reference{Table: "client", Column: "id"},
			}},
			&migration.AddColumn{Table: "transaction", Column: migration.Column{Name: "asaas_id", Type: "TEXT"}},
			&migration.AddColumn{Table: "transaction", Column: migration.Column{Name: "asaas_invoice_url", Type: "TEXT"}},
			&migration.AddColumn{Table: "transaction", Column: migration.Column{Name: "installment_number", Type: "INTEGER"}},
			&migration.AddColumn{Table: "transaction", Column: migration.Column{Name: "total_installments", Type: "INTEGER"}},
			&migration.AddColumn{Table: "transaction", Column: migration.Column{Name: "cancellation_reason", Type: "TEXT"}},
		},
	},
	{
		ID:          "contract_termination",
		Description: "Contract termination details",
		Steps: []migration.Step{
			&migration.AddColumn{Table: "contract", Column: migration.Column{Name: "termination_reason", Type: "VARCHAR(500)"}},
			&migration.AddColumn{Table: "contract", Column: migration.Column{Name: "termination_date", Type: "DATE"}},
			&migration.AddColumn{Table: "contract", Column: migration.Column{Name: "penalty_amount", Type: "FLOAT", Default: 0.0}},
		},
	},
	{
		ID:          "activity_tracking",
		Description: "Last login and last activity timestamps",
		Steps: []migration.Step{
			&migration.AddColumn{Table: "user", Column: migration.Column{Name: "last_login", Type: "TIMESTAMP"}},
			&migration.AddColumn{Table: "company", Column: migration.Column{Name: "last_active_at", Type: "TIMESTAMP"}},
		},
	},
	{
		ID:          "drive_folder_template_enabled",
		Description: "Allow drive folder templates to be switched off",
		Steps: []migration.Step{
			&migration.AddColumn{Table: "drive_folder_template", Column: migration.Column{Name: "enabled", Type: "BOOLEAN", Default: true}},
		},
	},
	{
		ID:          "diagnostic_columns",
		Description: "Diagnostic results on leads and clients",
		Steps:       diagnosticSteps("lead", "client"),
	},
	{
		ID:          "gmb_columns",
		Description: "Google Business profile metrics on leads and clients",
		Steps:       gmbSteps("lead", "client"),
	},
}

var jsonb = map[types.DriverType]string{types.DriverPostgreSQL: "JSONB"}

func diagnosticSteps(tables ...string) []migration.Step {
	var steps []migration.Step
	for _, table := range tables {
		for _, col := range []migration.Column{
			{Name: "diagnostic_status", Type: "VARCHAR(20)", Default: "pending"},
			{Name: "diagnostic_score", Type: "FLOAT"},
			{Name: "diagnostic_stars", Type: "FLOAT"},
			{Name: "diagnostic_classification", Type: "VARCHAR(50)"},
			{Name: "diagnostic_date", Type: "TIMESTAMP"},
			{Name: "diagnostic_pillars", Type: "JSON", DialectTypes: jsonb},
		} {
			steps = append(steps, &migration.AddColumn{Table: table, Column: col})
		}
	}
	return steps
}

func gmbSteps(tables ...string) []migration.Step {
	var steps []migration.Step
	for _, table := range tables {
		for _, col := range []migration.Column{
			{Name: "gmb_link", Type: "VARCHAR(500)"},
			{Name: "gmb_rating", Type: "FLOAT", Default: 0.0},
			{Name: "gmb_reviews", Type: "INTEGER", Default: 0},
			{Name: "gmb_photos", Type: "INTEGER", Default: 0},
			{Name: "gmb_last_sync", Type: "TIMESTAMP"},
		} {
			steps = append(steps, &migration.AddColumn{Table: table, Column: col})
		}
	}
	return steps
}

// All returns the built-in migrations in apply order
func All() []*migration.Migration {
	out := make([]*migration.Migration, len(migrations))
	copy(out, migrations)
	return out
}

// ByID returns the migration with the given id
func ByID(id string) (*migration.Migration, bool) {
	for _, m := range migrations {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

// IDs returns the ids of all built-in migrations in apply order
func IDs() []string {
	ids := make([]string, len(migrations))
	for i, m := range migrations {
		ids[i] = m.ID
	}
	return ids
}
