package backup

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/bartolomema-prog/listasbebe/internal/database"
	"github.com/bartolomema-prog/listasbebe/internal/store"
)

type fakeS3 struct {
	keys []string
}

func (f *fakeS3) PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.keys = append(f.keys, *input.Key)
	return &s3.PutObjectOutput{}, nil
}

func TestManagerDisabledWithoutConfig(t *testing.T) {
	m := NewManager(Config{}, nil, nil, slog.Default(), nil)
	if m.Status().State != StateDisabled {
		t.Errorf("state = %v, want disabled", m.Status().State)
	}
	if _, err := m.RunNow(context.Background()); err == nil {
		t.Error("expected error when unconfigured")
	}
}

func TestManagerRunNow(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	fake := &fakeS3{}
	var statuses []Status
	m := NewManager(
		Config{S3: S3Config{Bucket: "b", AccessKey: "k", SecretKey: "s"}, DBPath: dbPath},
		db, store.NewBackupStore(db), slog.Default(),
		func(s Status) { statuses = append(statuses, s) },
	)
	m.client = fake

	id, err := m.RunNow(context.Background())
	if err != nil {
		t.Fatalf("run now: %v", err)
	}
	if id == 0 {
		t.Error("expected a record id")
	}
	if len(fake.keys) != 1 || !strings.HasPrefix(fake.keys[0], "backups/listasbebe-") {
		t.Errorf("uploaded keys = %v", fake.keys)
	}

	records, err := store.NewBackupStore(db).ListRecent(5)
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(records) != 1 || records[0].SizeBytes == 0 {
		t.Errorf("records = %+v", records)
	}
	if records[0].ObjectKey != fake.keys[0] {
		t.Errorf("record key = %q, uploaded = %q", records[0].ObjectKey, fake.keys[0])
	}

	st := m.Status()
	if st.State != StateIdle || st.LastBackup == nil {
		t.Errorf("status = %+v, want idle with last backup set", st)
	}
	if len(statuses) < 2 {
		t.Errorf("expected running and idle callbacks, got %d", len(statuses))
	}
	if statuses[0].State != StateRunning {
		t.Errorf("first callback = %v, want running", statuses[0].State)
	}
}
