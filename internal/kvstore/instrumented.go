package kvstore

import "context"

// OpRecorder はストレージ操作のメトリクス記録インターフェース。
// metrics.Collectorの部分集合として定義する。
type OpRecorder interface {
	RecordStoreOp(op string)
}

// InstrumentedStore はStoreをラップして操作回数を記録する。
type InstrumentedStore struct {
	next Store
	rec  OpRecorder
}

// NewInstrumentedStore はInstrumentedStoreを生成する。
func NewInstrumentedStore(next Store, rec OpRecorder) *InstrumentedStore {
	return &InstrumentedStore{next: next, rec: rec}
}

// Read は操作を記録してから委譲する。
func (s *InstrumentedStore) Read(ctx context.Context, key string, dest any) (bool, error) {
	s.rec.RecordStoreOp("read")
	return s.next.Read(ctx, key, dest)
}

// Write は操作を記録してから委譲する。
func (s *InstrumentedStore) Write(ctx context.Context, key string, value any) error {
	s.rec.RecordStoreOp("write")
	return s.next.Write(ctx, key, value)
}

// Remove は操作を記録してから委譲する。
func (s *InstrumentedStore) Remove(ctx context.Context, key string) error {
	s.rec.RecordStoreOp("remove")
	return s.next.Remove(ctx, key)
}
