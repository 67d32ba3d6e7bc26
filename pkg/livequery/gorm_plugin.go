package livequery

import (
	"context"
	"reflect"

	"gorm.io/gorm"
)

// Keyed is implemented by models that know which live queries a write to them affects.
type Keyed interface {
	ChangeKeys() []string
}

// Plugin publishes change keys for every successful create, update and delete
// made through a *gorm.DB.
type Plugin struct {
	feed    Feed
	onError func(key string, err error)
}

func NewPlugin(feed Feed, onError func(key string, err error)) *Plugin {
	return &Plugin{feed: feed, onError: onError}
}

func (p *Plugin) Name() string {
	return "livequery"
}

func (p *Plugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Create().After("gorm:create").Register("livequery:after_create", p.afterWrite); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("livequery:after_update", p.afterWrite); err != nil {
		return err
	}
	return cb.Delete().After("gorm:delete").Register("livequery:after_delete", p.afterWrite)
}

func (p *Plugin) afterWrite(db *gorm.DB) {
	if db.Error != nil || db.RowsAffected == 0 || db.Statement == nil {
		return
	}

	ctx := db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	for _, key := range collectKeys(db.Statement) {
		if err := p.feed.Publish(ctx, key); err != nil && p.onError != nil {
			p.onError(key, err)
		}
	}
}

func collectKeys(stmt *gorm.Statement) []string {
	seen := make(map[string]bool)
	var keys []string
	add := func(k string) {
		if k != "" && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}

	add(stmt.Table)
	addKeyed(stmt.Model, add)
	if stmt.Dest != stmt.Model {
		addKeyed(stmt.Dest, add)
	}
	return keys
}

func addKeyed(v interface{}, add func(string)) {
	if v == nil {
		return
	}
	if k, ok := v.(Keyed); ok {
		for _, key := range k.ChangeKeys() {
			add(key)
		}
		return
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return
	}
	for i := 0; i < rv.Len(); i++ {
		item := rv.Index(i)
		if item.Kind() != reflect.Ptr && item.CanAddr() {
			item = item.Addr()
		}
		if k, ok := item.Interface().(Keyed); ok {
			for _, key := range k.ChangeKeys() {
				add(key)
			}
		}
	}
}
