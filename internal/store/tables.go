package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared by the queries.
const (
	tableSessions = "practice_sessions"
	tableAttempts = "attempts"
	tableSolves   = "solves"
	tableSRSItems = "srs_items"
	tableReviews  = "srs_reviews"
)

const textSize = 2147483647

var (
	// PracticeSessionsColumns holds the columns for the "practice_sessions" table.
	PracticeSessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "started_at", Type: field.TypeTime},
		{Name: "ended_at", Type: field.TypeTime, Nullable: true},
		{Name: "notes", Type: field.TypeString, Nullable: true, Size: textSize},
		{Name: "created_at", Type: field.TypeTime},
	}
	// PracticeSessionsTable holds the schema information for the "practice_sessions" table.
	PracticeSessionsTable = &schema.Table{
		Name:       tableSessions,
		Columns:    PracticeSessionsColumns,
		PrimaryKey: []*schema.Column{PracticeSessionsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "practicesession_started_at", Columns: []*schema.Column{PracticeSessionsColumns[1]}},
		},
	}

	// AttemptsColumns holds the columns for the "attempts" table.
	AttemptsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "session_id", Type: field.TypeString, Nullable: true, Size: 36},
		{Name: "scramble", Type: field.TypeString, Size: textSize},
		{Name: "cross_moves", Type: field.TypeInt},
		{Name: "cross_color", Type: field.TypeString, Default: DefaultCrossColor},
		{Name: "pairs_attempted", Type: field.TypeInt, Default: 0},
		{Name: "cross_success", Type: field.TypeBool, Nullable: true},
		{Name: "pairs_planned", Type: field.TypeInt, Default: 0},
		{Name: "inspection_time_ms", Type: field.TypeInt64, Nullable: true},
		{Name: "used_unlimited_time", Type: field.TypeBool, Default: false},
		{Name: "notes", Type: field.TypeString, Nullable: true, Size: textSize},
		{Name: "created_at", Type: field.TypeTime},
	}
	// AttemptsTable holds the schema information for the "attempts" table.
	AttemptsTable = &schema.Table{
		Name:       tableAttempts,
		Columns:    AttemptsColumns,
		PrimaryKey: []*schema.Column{AttemptsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "attempts_practice_sessions_attempts",
				Columns:    []*schema.Column{AttemptsColumns[1]},
				RefColumns: []*schema.Column{PracticeSessionsColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
		Indexes: []*schema.Index{
			{Name: "attempt_created_at", Columns: []*schema.Column{AttemptsColumns[11]}},
			{Name: "attempt_session_id", Columns: []*schema.Column{AttemptsColumns[1]}},
			{Name: "attempt_cross_moves", Columns: []*schema.Column{AttemptsColumns[3]}},
		},
	}

	// SolvesColumns holds the columns for the "solves" table.
	SolvesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "puzzle", Type: field.TypeString, Default: DefaultPuzzle},
		{Name: "solver", Type: field.TypeString},
		{Name: "result", Type: field.TypeFloat64},
		{Name: "competition", Type: field.TypeString, Nullable: true},
		{Name: "solve_date", Type: field.TypeTime, Nullable: true},
		{Name: "scramble", Type: field.TypeString, Size: textSize},
		{Name: "reconstruction", Type: field.TypeString, Nullable: true, Size: textSize},
		{Name: "method", Type: field.TypeString, Nullable: true},
		{Name: "stm_cross1", Type: field.TypeInt, Nullable: true},
		{Name: "time_cross1", Type: field.TypeFloat64, Nullable: true},
		{Name: "alg_cubing_url", Type: field.TypeString, Nullable: true, Size: textSize},
		{Name: "created_at", Type: field.TypeTime},
	}
	// SolvesTable holds the schema information for the "solves" table.
	SolvesTable = &schema.Table{
		Name:       tableSolves,
		Columns:    SolvesColumns,
		PrimaryKey: []*schema.Column{SolvesColumns[0]},
		Indexes: []*schema.Index{
			{Name: "solve_result", Columns: []*schema.Column{SolvesColumns[3]}},
		},
	}

	// SrsItemsColumns holds the columns for the "srs_items" table.
	SrsItemsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "solve_id", Type: field.TypeInt64},
		{Name: "depth", Type: field.TypeInt},
		{Name: "ease_factor", Type: field.TypeFloat64, Default: 2.5},
		{Name: "interval_days", Type: field.TypeInt, Default: 1},
		{Name: "repetitions", Type: field.TypeInt, Default: 0},
		{Name: "next_review_at", Type: field.TypeTime},
		{Name: "last_reviewed_at", Type: field.TypeTime, Nullable: true},
		{Name: "times_correct", Type: field.TypeInt, Default: 0},
		{Name: "times_incorrect", Type: field.TypeInt, Default: 0},
		{Name: "notes", Type: field.TypeString, Nullable: true, Size: textSize},
		{Name: "created_at", Type: field.TypeTime},
	}
	// SrsItemsTable holds the schema information for the "srs_items" table.
	SrsItemsTable = &schema.Table{
		Name:       tableSRSItems,
		Columns:    SrsItemsColumns,
		PrimaryKey: []*schema.Column{SrsItemsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "srs_items_solves_srs_items",
				Columns:    []*schema.Column{SrsItemsColumns[1]},
				RefColumns: []*schema.Column{SolvesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "srsitem_solve_id_depth", Unique: true, Columns: []*schema.Column{SrsItemsColumns[1], SrsItemsColumns[2]}},
			{Name: "srsitem_next_review_at", Columns: []*schema.Column{SrsItemsColumns[6]}},
		},
	}

	// SrsReviewsColumns holds the columns for the "srs_reviews" table.
	SrsReviewsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "srs_item_id", Type: field.TypeInt64},
		{Name: "quality", Type: field.TypeInt},
		{Name: "response_time_ms", Type: field.TypeInt64, Nullable: true},
		{Name: "user_solution", Type: field.TypeString, Nullable: true, Size: textSize},
		{Name: "notes", Type: field.TypeString, Nullable: true, Size: textSize},
		{Name: "created_at", Type: field.TypeTime},
	}
	// SrsReviewsTable holds the schema information for the "srs_reviews" table.
	SrsReviewsTable = &schema.Table{
		Name:       tableReviews,
		Columns:    SrsReviewsColumns,
		PrimaryKey: []*schema.Column{SrsReviewsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "srs_reviews_srs_items_reviews",
				Columns:    []*schema.Column{SrsReviewsColumns[1]},
				RefColumns: []*schema.Column{SrsItemsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "srsreview_created_at", Columns: []*schema.Column{SrsReviewsColumns[6]}},
		},
	}

	// Tables holds all the tables in the schema, in creation order.
	Tables = []*schema.Table{
		PracticeSessionsTable,
		AttemptsTable,
		SolvesTable,
		SrsItemsTable,
		SrsReviewsTable,
	}
)

func init() {
	AttemptsTable.ForeignKeys[0].RefTable = PracticeSessionsTable
	SrsItemsTable.ForeignKeys[0].RefTable = SolvesTable
	SrsReviewsTable.ForeignKeys[0].RefTable = SrsItemsTable
}
