package reconcile

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bookshelf/bookshelf/internal/metrics"
	"github.com/bookshelf/bookshelf/internal/model"
)

type stubRepo struct {
	users    []model.UserDocument
	books    []model.BookDocument
	detached []primitive.ObjectID
}

func (s *stubRepo) ScanUserBookRefs(ctx context.Context) ([]model.UserDocument, error) {
	return s.users, nil
}

func (s *stubRepo) FindBooksByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.BookDocument, error) {
	return s.books, nil
}

func (s *stubRepo) DetachBookFromUsers(ctx context.Context, bookID primitive.ObjectID) (int64, error) {
	s.detached = append(s.detached, bookID)
	return 1, nil
}

func testWorker(repo Repository, rec metrics.Recorder) *Worker {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewWorker(repo, logger, rec, DefaultInterval)
}

func TestCollectRefs_Distinct(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	users := []model.UserDocument{
		{Books: []primitive.ObjectID{a, b}},
		{Books: []primitive.ObjectID{b, a}},
		{Books: nil},
	}

	refs := collectRefs(users)
	if len(refs) != 2 {
		t.Fatalf("expected 2 distinct refs, got %d", len(refs))
	}
}

func TestDiffDangling(t *testing.T) {
	live := primitive.NewObjectID()
	gone := primitive.NewObjectID()

	dangling := diffDangling(
		[]primitive.ObjectID{live, gone},
		map[primitive.ObjectID]bool{live: true},
	)

	if len(dangling) != 1 || dangling[0] != gone {
		t.Errorf("expected [%s], got %v", gone.Hex(), dangling)
	}
}

func TestRunOnce_RepairsDanglingRefs(t *testing.T) {
	live := primitive.NewObjectID()
	gone := primitive.NewObjectID()

	repo := &stubRepo{
		users: []model.UserDocument{
			{ID: primitive.NewObjectID(), Books: []primitive.ObjectID{live, gone}},
		},
		books: []model.BookDocument{{ID: live}},
	}
	rec := metrics.NewInMemory()

	w := testWorker(repo, rec)
	if err := w.runOnce(context.Background()); err != nil {
		t.Fatalf("runOnce failed: %v", err)
	}

	if len(repo.detached) != 1 || repo.detached[0] != gone {
		t.Errorf("expected detach of %s, got %v", gone.Hex(), repo.detached)
	}

	snap := rec.Snapshot()
	if snap.DanglingRefsRepaired != 1 {
		t.Errorf("expected 1 repaired ref, got %d", snap.DanglingRefsRepaired)
	}
	if snap.ReconcileRuns != 1 {
		t.Errorf("expected 1 reconcile run, got %d", snap.ReconcileRuns)
	}
}

func TestRunOnce_NoRefsIsNoop(t *testing.T) {
	repo := &stubRepo{}
	w := testWorker(repo, nil)

	if err := w.runOnce(context.Background()); err != nil {
		t.Fatalf("runOnce failed: %v", err)
	}

	if len(repo.detached) != 0 {
		t.Errorf("expected no detaches, got %v", repo.detached)
	}
}

func TestRunOnce_AllRefsLiveIsNoop(t *testing.T) {
	live := primitive.NewObjectID()

	repo := &stubRepo{
		users: []model.UserDocument{{Books: []primitive.ObjectID{live}}},
		books: []model.BookDocument{{ID: live}},
	}
	w := testWorker(repo, nil)

	if err := w.runOnce(context.Background()); err != nil {
		t.Fatalf("runOnce failed: %v", err)
	}

	if len(repo.detached) != 0 {
		t.Errorf("expected no detaches, got %v", repo.detached)
	}
}
