package repository

import (
	"context"
	"sync"
	"time"

	"ai-orchestrator/internal/domain"
)

// MemoryJournal реализует журнал отправок в памяти процесса.
// Используется при пустом DATABASE_URL; история живет до рестарта
// сервиса. Безопасен для конкурентных доставок вебхуков.
type MemoryJournal struct {
	mu         sync.RWMutex
	marks      map[string]map[domain.Status]domain.DispatchRecord
	seen       map[string]time.Time
	rejections map[string]int
}

// NewMemoryJournal создает новый экземпляр MemoryJournal.
func NewMemoryJournal() domain.DispatchJournal {
	return &MemoryJournal{
		marks:      make(map[string]map[domain.Status]domain.DispatchRecord),
		seen:       make(map[string]time.Time),
		rejections: make(map[string]int),
	}
}

func (j *MemoryJournal) AlreadyDispatched(ctx context.Context, issueKey string, target domain.Status) (bool, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	_, ok := j.marks[issueKey][target]
	return ok, nil
}

func (j *MemoryJournal) RecordDispatch(ctx context.Context, rec domain.DispatchRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	byStatus, ok := j.marks[rec.IssueKey]
	if !ok {
		byStatus = make(map[domain.Status]domain.DispatchRecord)
		j.marks[rec.IssueKey] = byStatus
	}
	byStatus[rec.TargetStatus] = rec

	if _, ok := j.seen[rec.IssueKey]; !ok {
		j.seen[rec.IssueKey] = rec.CreatedAt
	}
	return nil
}

func (j *MemoryJournal) ClearDispatches(ctx context.Context, issueKey string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	// Память о первой отправке (seen) намеренно не трогается: задача
	// остается известной как управляемая AI.
	delete(j.marks, issueKey)
	return nil
}

func (j *MemoryJournal) HasDispatched(ctx context.Context, issueKey string) (bool, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	_, ok := j.seen[issueKey]
	return ok, nil
}

func (j *MemoryJournal) RecordRejection(ctx context.Context, issueKey string) (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.rejections[issueKey]++
	return j.rejections[issueKey], nil
}

func (j *MemoryJournal) ClearRejections(ctx context.Context, issueKey string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	delete(j.rejections, issueKey)
	return nil
}
