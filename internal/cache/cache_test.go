package cache

import (
	"testing"
	"time"

	"github.com/ppiankov/ruleaudit/internal/model"
)

func TestContentKey_Stability(t *testing.T) {
	a := ContentKey([]byte("---\ndescription: x\n---\nbody"))
	b := ContentKey([]byte("---\ndescription: x\n---\nbody"))
	c := ContentKey([]byte("---\ndescription: x\n---\nbody changed"))

	if a != b {
		t.Error("Expected identical content to produce identical keys")
	}
	if a == c {
		t.Error("Expected changed content to produce a different key")
	}
}

func TestLayeredStore_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	store := NewLayeredStore(time.Minute, dir, time.Hour)

	key := ContentKey([]byte("content"))
	if err := store.Set(key, []byte("value"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	// A fresh layered store over the same dir only has the disk copy
	fresh := NewLayeredStore(time.Minute, dir, time.Hour)
	val, found := fresh.Get(key)
	if !found || string(val) != "value" {
		t.Fatalf("Expected a disk hit, got %q found=%v", val, found)
	}

	// The hit must now be served from memory even if disk is cleared
	_ = NewDiskStore(dir, time.Hour).Clear()
	val, found = fresh.Get(key)
	if !found || string(val) != "value" {
		t.Errorf("Expected the promoted entry in memory, got %q found=%v", val, found)
	}
}

func TestDiskStore_Expiration(t *testing.T) {
	store := NewDiskStore(t.TempDir(), time.Hour)

	if err := store.Set("k", []byte("v"), -time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, found := store.Get("k"); found {
		t.Error("Expected an expired entry to read as a miss")
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	store := NewMemoryStore(time.Minute, time.Minute)

	snap := AnalysisSnapshot{
		Scope:      model.ActivationScope{Tier: model.TierScoped, Patterns: []string{"*.ts"}},
		Directives: []model.Directive{{Verb: model.VerbForbid, Subject: "var", Trigger: "never use"}},
		References: []string{"src/index.ts"},
	}

	key := ContentKey([]byte("doc"))
	if err := PutSnapshot(store, key, snap, 0); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, found := GetSnapshot(store, key)
	if !found {
		t.Fatal("Expected a snapshot hit")
	}
	if got.Scope.Tier != model.TierScoped || len(got.Directives) != 1 || got.Directives[0].Subject != "var" {
		t.Errorf("Expected the snapshot round-tripped, got %+v", got)
	}
}

func TestSnapshot_CorruptEntryIsMiss(t *testing.T) {
	store := NewMemoryStore(time.Minute, time.Minute)
	_ = store.Set("bad", []byte("not json"), 0)

	if _, found := GetSnapshot(store, "bad"); found {
		t.Error("Expected a corrupt entry to read as a miss")
	}
}
