package video

import (
	"context"
	"bytes"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(client, time.Minute), mr
}

func TestStore_PutGet_PreservesOrder(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	segments := [][]byte{[]byte("frame-0"), []byte("frame-1"), []byte("frame-2")}
	if err := store.Put(ctx, "vh_abc", segments); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, err := store.Get(ctx, "vh_abc")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(got))
	}
	for i, seg := range segments {
		if !bytes.Equal(got[i], seg) {
			t.Errorf("segment %d mismatch: got %q", i, got[i])
		}
	}
}

func TestStore_Get_UnknownHandle(t *testing.T) {
	store, _ := newTestStore(t)

	got, err := store.Get(context.Background(), "vh_missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no segments, got %d", len(got))
	}
}

func TestStore_Delete(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "vh_gone", [][]byte{[]byte("blob")}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := store.Delete(ctx, "vh_gone"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if mr.Exists("video:vh_gone:segments") {
		t.Error("key should be deleted")
	}
}

func TestStore_Put_SetsTTL(t *testing.T) {
	store, mr := newTestStore(t)

	if err := store.Put(context.Background(), "vh_ttl", [][]byte{[]byte("blob")}); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if mr.TTL("video:vh_ttl:segments") <= 0 {
		t.Error("payload key should carry a TTL")
	}
}
