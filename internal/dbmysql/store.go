package dbmysql

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"parallel/internal/common"
	"parallel/internal/model"
)

// kindSpec maps an entity kind onto its table. Filter keys are checked against
// columns so callers can never inject SQL through a column name.
type kindSpec struct {
	timeColumn string
	columns    []string
}

var kindSpecs = map[common.EntityKind]kindSpec{
	common.KindUser: {
		timeColumn: "created_at",
		columns:    []string{"id", "email", "partner_id", "is_authenticated"},
	},
	common.KindMessage: {
		timeColumn: "timestamp",
		columns:    []string{"id", "sender_id", "recipient_id", "type", "status", "correlation_token"},
	},
	common.KindDiaryEntry: {
		timeColumn: "created_at",
		columns:    []string{"id", "author_id", "recipient_id", "status"},
	},
	common.KindLocationShare: {
		timeColumn: "timestamp",
		columns:    []string{"id", "user_id", "partner_id", "sharing_duration", "is_active"},
	},
	common.KindCalendarEvent: {
		timeColumn: "start_date",
		columns:    []string{"id", "type", "created_by", "is_recurring"},
	},
}

func (k kindSpec) allows(column string) bool {
	for _, c := range k.columns {
		if c == column {
			return true
		}
	}
	return false
}

// Store is the MySQL RelationshipStore. Message content flagged as encrypted
// is sealed with cipher before it reaches the database.
type Store struct {
	db     *gorm.DB
	cipher *common.MessageCipher
}

var _ common.RelationshipStore = (*Store)(nil)

func NewStore(db *gorm.DB, cipher *common.MessageCipher) *Store {
	return &Store{db: db, cipher: cipher}
}

func (s *Store) Insert(ctx context.Context, entity interface{}) error {
	record, err := s.record(entity)
	if err != nil {
		return common.WrapStorage("insert", err)
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return common.WrapStorage("insert", err)
	}
	return nil
}

// Save writes every column of entity, inserting it when the row is missing.
func (s *Store) Save(ctx context.Context, entity interface{}) error {
	record, err := s.record(entity)
	if err != nil {
		return common.WrapStorage("save", err)
	}
	if err := s.db.WithContext(ctx).Save(record).Error; err != nil {
		return common.WrapStorage("save", err)
	}
	return nil
}

func (s *Store) Fetch(ctx context.Context, kind common.EntityKind, filter common.Filter) ([]interface{}, error) {
	spec, ok := kindSpecs[kind]
	if !ok {
		return nil, common.WrapStorage("fetch", fmt.Errorf("unknown entity kind %q", kind))
	}

	scope, err := filterScope(spec, filter)
	if err != nil {
		return nil, common.WrapStorage("fetch "+string(kind), err)
	}
	q := s.db.WithContext(ctx).Scopes(scope)

	var out []interface{}
	switch kind {
	case common.KindUser:
		var rows []*User
		if err := q.Find(&rows).Error; err != nil {
			return nil, common.WrapStorage("fetch users", err)
		}
		for _, r := range rows {
			out = append(out, r.toModel())
		}
	case common.KindMessage:
		var rows []*Message
		if err := q.Find(&rows).Error; err != nil {
			return nil, common.WrapStorage("fetch messages", err)
		}
		for _, r := range rows {
			m, err := r.toModel(s.cipher)
			if err != nil {
				return nil, common.WrapStorage("fetch messages", err)
			}
			out = append(out, m)
		}
	case common.KindDiaryEntry:
		var rows []*DiaryEntry
		if err := q.Find(&rows).Error; err != nil {
			return nil, common.WrapStorage("fetch diary entries", err)
		}
		for _, r := range rows {
			out = append(out, r.toModel())
		}
	case common.KindLocationShare:
		var rows []*LocationShare
		if err := q.Find(&rows).Error; err != nil {
			return nil, common.WrapStorage("fetch location shares", err)
		}
		for _, r := range rows {
			out = append(out, r.toModel())
		}
	case common.KindCalendarEvent:
		var rows []*CalendarEvent
		if err := q.Find(&rows).Error; err != nil {
			return nil, common.WrapStorage("fetch calendar events", err)
		}
		for _, r := range rows {
			out = append(out, r.toModel())
		}
	}

	if out == nil {
		out = []interface{}{}
	}
	return out, nil
}

func (s *Store) record(entity interface{}) (interface{}, error) {
	switch e := entity.(type) {
	case *model.User:
		return newUser(e), nil
	case *model.Message:
		return newMessage(e, s.cipher)
	case *model.DiaryEntry:
		return newDiaryEntry(e), nil
	case *model.LocationShare:
		return newLocationShare(e), nil
	case *model.CalendarEvent:
		return newCalendarEvent(e), nil
	}
	return nil, fmt.Errorf("unsupported entity type %T", entity)
}

func filterScope(spec kindSpec, f common.Filter) (func(*gorm.DB) *gorm.DB, error) {
	equals, equalsArgs, err := conjunction(spec, f.Equals)
	if err != nil {
		return nil, err
	}

	var groups []string
	var groupArgs []interface{}
	for _, g := range f.AnyOf {
		sql, args, err := conjunction(spec, g)
		if err != nil {
			return nil, err
		}
		if sql == "" {
			continue
		}
		groups = append(groups, "("+sql+")")
		groupArgs = append(groupArgs, args...)
	}

	return func(db *gorm.DB) *gorm.DB {
		if equals != "" {
			db = db.Where(equals, equalsArgs...)
		}
		if len(groups) > 0 {
			db = db.Where("("+strings.Join(groups, " OR ")+")", groupArgs...)
		}
		if f.Since != nil {
			db = db.Where(quote(spec.timeColumn)+" >= ?", *f.Since)
		}
		if f.Until != nil {
			db = db.Where(quote(spec.timeColumn)+" < ?", *f.Until)
		}
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: spec.timeColumn}, Desc: f.Descending})
		if f.Limit > 0 {
			db = db.Limit(f.Limit)
		}
		return db
	}, nil
}

// conjunction renders cols as "`a` = ? AND `b` = ?" in key order.
func conjunction(spec kindSpec, cols map[string]interface{}) (string, []interface{}, error) {
	if len(cols) == 0 {
		return "", nil, nil
	}

	keys := make([]string, 0, len(cols))
	for k := range cols {
		if !spec.allows(k) {
			return "", nil, fmt.Errorf("column %q cannot be filtered", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	args := make([]interface{}, len(keys))
	for i, k := range keys {
		parts[i] = quote(k) + " = ?"
		args[i] = cols[k]
	}
	return strings.Join(parts, " AND "), args, nil
}

func quote(column string) string {
	return "`" + column + "`"
}
