package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-orchestrator/internal/domain"

	"github.com/sirupsen/logrus"
)

// Router реализует конечный автомат маршрутизации событий трекера:
// классификация, сборка контекста, отправка агенту и переходы статуса.
type Router struct {
	extractor  *ProjectExtractor
	resolver   *ConfigResolver
	compiler   *ContextCompiler
	dispatcher domain.AgentDispatcher
	tracker    domain.Tracker
	journal    domain.DispatchJournal
	logger     *logrus.Logger

	// maxReviewCycles ограничивает число циклов возврата в разработку;
	// ноль отключает предохранитель.
	maxReviewCycles int
}

// NewRouter создает новый экземпляр Router.
func NewRouter(
	resolver *ConfigResolver,
	compiler *ContextCompiler,
	dispatcher domain.AgentDispatcher,
	tracker domain.Tracker,
	journal domain.DispatchJournal,
	maxReviewCycles int,
	logger *logrus.Logger,
) domain.OrchestratorUseCase {
	return &Router{
		extractor:       NewProjectExtractor(resolver.Known),
		resolver:        resolver,
		compiler:        compiler,
		dispatcher:      dispatcher,
		tracker:         tracker,
		journal:         journal,
		logger:          logger,
		maxReviewCycles: maxReviewCycles,
	}
}

// Route классифицирует событие. На каждое событие приходится ровно
// один исход: игнор с причиной, отправка одной из двух ролей либо
// ошибка, фатальная для этого события.
func (r *Router) Route(ctx context.Context, event *domain.IssueEvent) (*domain.Decision, error) {
	// 1. Валидация события.
	if err := event.Validate(); err != nil {
		return nil, err
	}

	// 2. Статус вне маршрутизируемых колонок игнорируется без побочных
	// эффектов.
	dev := event.Status.TriggersDevelopment()
	review := event.Status.TriggersReview()
	if !dev && !review {
		return ignoreDecision("status not routable: " + string(event.Status)), nil
	}

	// 3. Метка ai обязательна. Для ветки ревью допускается задача без
	// метки, если журнал уже знает ее как управляемую AI.
	if !event.HasLabel(domain.AILabel) {
		if !review {
			return ignoreDecision("ai label absent"), nil
		}
		managed, err := r.journal.HasDispatched(ctx, event.Key)
		if err != nil {
			return nil, fmt.Errorf("journal lookup for %s: %w", event.Key, err)
		}
		if !managed {
			return ignoreDecision("ai label absent"), nil
		}
	}

	// 4. Определяем проект. Неопределенный проект считается законным
	// исходом, а не ошибкой.
	id := r.extractor.Extract(event.Summary, event.Labels)
	if id.IsZero() {
		return ignoreDecision("project identifier not resolved"), nil
	}

	// 5. Конфигурация проекта: все или ничего.
	cfg, err := r.resolver.Resolve(id)
	if err != nil {
		return nil, err
	}

	// 6. Для ревью обязательна ссылка на пул-реквест: ревьюить нечего,
	// если его нет.
	role := domain.RoleDevelopment
	kind := domain.DecisionDispatchDevelopment
	var prLink string
	if review {
		role = domain.RoleArchitectureReview
		kind = domain.DecisionDispatchReview
		prLink = event.PRLink
		if prLink == "" {
			link, err := r.tracker.FindPullRequestLink(ctx, event.Key)
			if err != nil {
				return nil, fmt.Errorf("pull request lookup for %s: %w", event.Key, err)
			}
			prLink = link
		}
		if prLink == "" {
			return nil, domain.ErrMissingPRLink
		}
	}

	// 7. Компиляция контекста.
	bundle := r.compiler.Compile(ctx, role, event, cfg, prLink)
	return &domain.Decision{Kind: kind, Bundle: bundle}, nil
}

// HandleEvent выполняет полный цикл обработки события. Все фатальные
// сбои перехватываются здесь и превращаются в комментарий в трекере
// плюс запись в лог; наружу ошибка не выходит.
func (r *Router) HandleEvent(ctx context.Context, event *domain.IssueEvent) *domain.EventResult {
	log := r.logger.WithFields(logrus.Fields{
		"issue_key": event.Key,
		"status":    string(event.Status),
		"event":     string(event.EventType),
	})

	decision, err := r.Route(ctx, event)
	if err != nil {
		return r.reject(ctx, event, err, log)
	}

	if decision.Kind == domain.DecisionIgnore {
		log.WithField("reason", decision.Reason).Info("event ignored")
		return &domain.EventResult{
			IssueKey: event.Key,
			State:    domain.EventIgnored,
			Decision: decision.Kind,
			Reason:   decision.Reason,
		}
	}

	// Подавление повторной доставки по паре (ключ, статус). Отказ
	// журнала дедупликацию не блокирует: лучше редкий дубль, чем
	// потерянная отправка.
	seen, err := r.journal.AlreadyDispatched(ctx, event.Key, event.Status)
	if err != nil {
		log.WithError(err).Warn("journal lookup failed, deduplication skipped")
	}
	if seen {
		log.Info("duplicate delivery suppressed")
		return &domain.EventResult{
			IssueKey: event.Key,
			State:    domain.EventSkipped,
			Decision: decision.Kind,
			Reason:   "dispatch already recorded for this status",
		}
	}

	bundle := decision.Bundle
	dispatch := domain.Dispatch{
		DispatchID: bundle.DispatchID,
		Role:       bundle.Role,
		IssueKey:   event.Key,
		Prompt:     bundle.Render(),
	}
	if err := r.dispatcher.Assign(ctx, dispatch); err != nil {
		return r.reject(ctx, event, fmt.Errorf("%w: %v", domain.ErrDispatchFailed, err), log)
	}

	// Запись в журнал после подтверждения приема агентом.
	rec := domain.DispatchRecord{
		DispatchID:   bundle.DispatchID,
		IssueKey:     event.Key,
		TargetStatus: event.Status,
		Role:         bundle.Role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := r.journal.RecordDispatch(ctx, rec); err != nil {
		log.WithError(err).Warn("dispatch record not persisted")
	}

	// Ветка разработки: best-effort перевод задачи в работу. Сбой
	// перехода не отменяет уже состоявшуюся отправку.
	if bundle.Role == domain.RoleDevelopment {
		if err := r.tracker.TransitionTo(ctx, event.Key, domain.StatusInProgress); err != nil {
			log.WithError(err).Warn("transition to In Progress failed")
		}
	}

	dispatchLog := log.WithFields(logrus.Fields{
		"dispatch_id": bundle.DispatchID,
		"role":        string(bundle.Role),
	})
	if missing := bundle.MissingDocuments(); len(missing) > 0 {
		dispatchLog = dispatchLog.WithField("docs_missing", missing)
	}
	dispatchLog.Info("agent dispatched")

	return &domain.EventResult{
		IssueKey: event.Key,
		State:    domain.EventDispatched,
		Decision: decision.Kind,
	}
}

// ApplyReviewOutcome применяет вердикт агента архитектурного ревью.
func (r *Router) ApplyReviewOutcome(ctx context.Context, issueKey string, outcome domain.ReviewOutcome, feedback, prLink string) error {
	// 1. Вердикт принимается только по задачам, проходившим через
	// отправку.
	managed, err := r.journal.HasDispatched(ctx, issueKey)
	if err != nil {
		return fmt.Errorf("journal lookup for %s: %w", issueKey, err)
	}
	if !managed {
		return domain.ErrNoReviewPending
	}

	log := r.logger.WithFields(logrus.Fields{
		"issue_key": issueKey,
		"outcome":   string(outcome),
	})

	switch outcome {
	case domain.OutcomeAccepted:
		// 2. Принято: задача уходит на ручное утверждение, счетчик
		// циклов обнуляется.
		if err := r.tracker.TransitionTo(ctx, issueKey, domain.StatusApproveByHuman); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrTransitionFailed, err)
		}
		r.commentBestEffort(ctx, issueKey, acceptedComment(feedback, prLink), log)
		if err := r.journal.ClearRejections(ctx, issueKey); err != nil {
			log.WithError(err).Warn("rejection counter not cleared")
		}
		log.Info("review accepted, issue moved to human approval")
		return nil

	case domain.OutcomeRejected:
		// 3. Отклонено: считаем цикл и возвращаем задачу в разработку.
		// Повторная отправка случится на следующей доставке вебхука.
		cycles, err := r.journal.RecordRejection(ctx, issueKey)
		if err != nil {
			log.WithError(err).Warn("rejection counter unavailable")
		}

		// Предохранитель от бесконечного цикла. При нуле лимита цикл
		// ограничен только вниманием людей к истории комментариев.
		if r.maxReviewCycles > 0 && cycles > r.maxReviewCycles {
			r.commentBestEffort(ctx, issueKey, cycleLimitComment(cycles, feedback), log)
			log.WithField("cycles", cycles).Error("review cycle limit exceeded, automatic redo stopped")
			return domain.ErrReviewCycleLimit
		}

		r.commentBestEffort(ctx, issueKey, rejectedComment(cycles, feedback, prLink), log)
		if err := r.journal.ClearDispatches(ctx, issueKey); err != nil {
			log.WithError(err).Warn("dispatch marks not cleared, redo may be suppressed")
		}
		if err := r.tracker.TransitionTo(ctx, issueKey, domain.StatusSelectedForDev); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrTransitionFailed, err)
		}
		log.WithField("cycles", cycles).Info("review rejected, issue returned to development")
		return nil

	default:
		return domain.ErrUnknownOutcome
	}
}

// reject завершает обработку события фатальным для него сбоем:
// комментарий в трекере для видимых пользователю причин, запись в лог
// для всех.
func (r *Router) reject(ctx context.Context, event *domain.IssueEvent, err error, log *logrus.Entry) *domain.EventResult {
	var comment string
	switch {
	case errors.Is(err, domain.ErrIncompleteConfig):
		comment = "AI orchestrator: dispatch blocked. " + err.Error() +
			". Fix the project configuration and move the issue again."
	case errors.Is(err, domain.ErrMissingPRLink):
		comment = "AI orchestrator: architecture review skipped, no pull request is linked to this issue."
	case errors.Is(err, domain.ErrDispatchFailed):
		comment = "AI orchestrator: agent dispatch failed after retries. " +
			"The issue keeps its current status; move it again to retry."
	}
	if comment != "" {
		r.commentBestEffort(ctx, event.Key, comment, log)
	}

	log.WithError(err).Error("event rejected")
	return &domain.EventResult{
		IssueKey: event.Key,
		State:    domain.EventRejected,
		Reason:   err.Error(),
	}
}

func (r *Router) commentBestEffort(ctx context.Context, issueKey, body string, log *logrus.Entry) {
	if body == "" {
		return
	}
	if err := r.tracker.Comment(ctx, issueKey, body); err != nil {
		log.WithError(err).Warn("tracker comment not delivered")
	}
}

func ignoreDecision(reason string) *domain.Decision {
	return &domain.Decision{Kind: domain.DecisionIgnore, Reason: reason}
}

func acceptedComment(feedback, prLink string) string {
	body := "Architecture review passed; waiting for human approval."
	if prLink != "" {
		body += "\nPull request: " + prLink
	}
	if feedback != "" {
		body += "\n\n" + feedback
	}
	return body
}

func rejectedComment(cycles int, feedback, prLink string) string {
	body := fmt.Sprintf("Architecture review rejected (cycle %d); issue returned to development.", cycles)
	if prLink != "" {
		body += "\nPull request: " + prLink
	}
	if feedback != "" {
		body += "\n\nReview feedback:\n" + feedback
	}
	return body
}

func cycleLimitComment(cycles int, feedback string) string {
	body := fmt.Sprintf("Architecture review rejected %d times; automatic redo stopped, human attention required.", cycles)
	if feedback != "" {
		body += "\n\nLast review feedback:\n" + feedback
	}
	return body
}
