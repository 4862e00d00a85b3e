package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	stores := map[string]Store{"memory": NewMemory()}

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		return stores
	}
	ctx := context.Background()
	pg, err := OpenPostgres(ctx, url)
	if err != nil {
		t.Fatalf("OpenPostgres: %v", err)
	}
	if _, err := pg.pool.Exec(ctx, `TRUNCATE skeletons`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	t.Cleanup(pg.Close)
	stores["postgres"] = pg
	return stores
}

func newSkeleton(id, name string, created time.Time) *Skeleton {
	data := []byte(`{"bones":[{"name":"root"}]}`)
	return &Skeleton{
		Summary: Summary{
			ID:        id,
			Name:      name,
			Format:    FormatJSON,
			Version:   "4.0.64",
			Size:      len(data),
			CreatedAt: created,
		},
		Data: data,
	}
}

func TestStore(t *testing.T) {
	for name, st := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

			first := newSkeleton("skel_a", "first", base)
			second := newSkeleton("skel_b", "second", base.Add(time.Hour))
			for _, s := range []*Skeleton{first, second} {
				if err := st.Create(ctx, s); err != nil {
					t.Fatalf("Create(%s): %v", s.ID, err)
				}
				time.Sleep(time.Millisecond)
			}

			if err := st.Create(ctx, newSkeleton("skel_a", "again", base)); !errors.Is(err, ErrDuplicate) {
				t.Errorf("duplicate Create = %v, want ErrDuplicate", err)
			}

			got, err := st.Get(ctx, "skel_a")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.Name != "first" || string(got.Data) != string(first.Data) || got.Format != FormatJSON {
				t.Errorf("Get = %+v", got)
			}

			got.Data[0] = 'x'
			again, _ := st.Get(ctx, "skel_a")
			if again.Data[0] != '{' {
				t.Error("Get returned shared data")
			}

			list, err := st.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(list) != 2 || list[0].ID != "skel_b" || list[1].ID != "skel_a" {
				t.Errorf("List = %+v, want newest first", list)
			}

			if err := st.Delete(ctx, "skel_a"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := st.Get(ctx, "skel_a"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get after Delete = %v, want ErrNotFound", err)
			}
			if err := st.Delete(ctx, "skel_a"); !errors.Is(err, ErrNotFound) {
				t.Errorf("second Delete = %v, want ErrNotFound", err)
			}
		})
	}
}
