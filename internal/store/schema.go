package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	groupsTable = "phrase_groups"
	itemsTable  = "items"
	logTable    = "review_log"
)

var (
	// GroupsColumns holds the columns for the "phrase_groups" table.
	GroupsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString, Unique: true},
		{Name: "enabled", Type: field.TypeBool, Default: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	// GroupsTable holds the schema information for the "phrase_groups" table.
	GroupsTable = &schema.Table{
		Name:       groupsTable,
		Columns:    GroupsColumns,
		PrimaryKey: []*schema.Column{GroupsColumns[0]},
	}

	// ItemsColumns holds the columns for the "items" table.
	ItemsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "front", Type: field.TypeString},
		{Name: "back", Type: field.TypeString},
		{Name: "mastery_level", Type: field.TypeInt, Default: 0},
		{Name: "know_streak", Type: field.TypeInt, Default: 0},
		{Name: "know_count", Type: field.TypeInt, Default: 0},
		{Name: "lapses", Type: field.TypeInt, Default: 0},
		{Name: "hard_lapses", Type: field.TypeInt, Default: 0},
		{Name: "last_reviewed_at", Type: field.TypeTime, Nullable: true},
		{Name: "next_review_at", Type: field.TypeTime},
		{Name: "is_mastered", Type: field.TypeBool, Default: false},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "group_id", Type: field.TypeString},
	}
	// ItemsTable holds the schema information for the "items" table.
	ItemsTable = &schema.Table{
		Name:       itemsTable,
		Columns:    ItemsColumns,
		PrimaryKey: []*schema.Column{ItemsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "items_phrase_groups_items",
				Columns:    []*schema.Column{ItemsColumns[12]},
				RefColumns: []*schema.Column{GroupsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "item_group_id_front",
				Unique:  true,
				Columns: []*schema.Column{ItemsColumns[12], ItemsColumns[1]},
			},
			{
				Name:    "item_next_review_at",
				Unique:  false,
				Columns: []*schema.Column{ItemsColumns[9]},
			},
		},
	}

	// ReviewLogColumns holds the columns for the "review_log" table.
	ReviewLogColumns = []*schema.Column{
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "item_id", Type: field.TypeString},
		{Name: "group_id", Type: field.TypeString},
		{Name: "action", Type: field.TypeString},
		{Name: "at", Type: field.TypeTime},
		{Name: "before_level", Type: field.TypeInt},
		{Name: "before_streak", Type: field.TypeInt},
		{Name: "before_count", Type: field.TypeInt},
		{Name: "before_lapses", Type: field.TypeInt},
		{Name: "before_hard_lapses", Type: field.TypeInt},
		{Name: "after_level", Type: field.TypeInt},
		{Name: "after_streak", Type: field.TypeInt},
		{Name: "after_count", Type: field.TypeInt},
		{Name: "after_lapses", Type: field.TypeInt},
		{Name: "after_hard_lapses", Type: field.TypeInt},
		{Name: "next_review_before", Type: field.TypeTime},
		{Name: "next_review_after", Type: field.TypeTime},
		{Name: "interval_ns", Type: field.TypeInt64},
		{Name: "was_new", Type: field.TypeBool},
		{Name: "crossed_into_leech", Type: field.TypeBool},
		{Name: "mastered_before", Type: field.TypeBool},
		{Name: "mastered_after", Type: field.TypeBool},
	}
	// ReviewLogTable holds the schema information for the "review_log" table.
	ReviewLogTable = &schema.Table{
		Name:       logTable,
		Columns:    ReviewLogColumns,
		PrimaryKey: []*schema.Column{ReviewLogColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "reviewlog_item_id",
				Unique:  false,
				Columns: []*schema.Column{ReviewLogColumns[1]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		GroupsTable,
		ItemsTable,
		ReviewLogTable,
	}
)

func init() {
	ItemsTable.ForeignKeys[0].RefTable = GroupsTable
}

// columnNames returns the names of cols in order.
func columnNames(cols []*schema.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}
