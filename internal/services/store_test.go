package services

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/bobby-s-dev/nws-forecast/internal/models"
)

func TestForecastStore(t *testing.T) {
	store := NewForecastStore(zaptest.NewLogger(t))

	if _, ok := store.Current(); ok {
		t.Fatal("new store reports a snapshot")
	}

	first := models.Snapshot{FetchID: "a", Model: models.Model{{Name: "Monday"}}, Raw: []byte(`{"a":1}`)}
	store.Replace(first)

	got, ok := store.Current()
	if !ok || got.FetchID != "a" || len(got.Model) != 1 || string(got.Raw) != `{"a":1}` {
		t.Fatalf("Current = %+v, %v", got, ok)
	}

	second := models.Snapshot{FetchID: "b", Model: models.Model{}, Raw: []byte(`{"b":2}`)}
	store.Replace(second)

	got, _ = store.Current()
	if got.FetchID != "b" || len(got.Model) != 0 || string(got.Raw) != `{"b":2}` {
		t.Errorf("Current after replace = %+v", got)
	}

	stats := store.GetStats()
	if stats["replaced"] != 2 {
		t.Errorf("replaced = %v; want 2", stats["replaced"])
	}
}
