package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"job-wizard-be/internal/config"
	"job-wizard-be/internal/dto"
	"job-wizard-be/internal/entity"
	"job-wizard-be/internal/pkg/logger"
	"job-wizard-be/internal/repository/memory"
	"job-wizard-be/internal/repository/specification"
	"job-wizard-be/internal/repository/unitofwork"
	internalWS "job-wizard-be/internal/websocket"
	"job-wizard-be/pkg/events"
	pktNats "job-wizard-be/pkg/nats"
	"job-wizard-be/pkg/wizard"

	"github.com/google/uuid"
)

var ErrNoActiveSession = errors.New("no active wizard session")

type IWizardService interface {
	StartSession(ctx context.Context, userID uuid.UUID, applicationID string) (*wizard.State, error)
	GetState(ctx context.Context, userID uuid.UUID) (*wizard.State, error)
	SetFreeText(ctx context.Context, userID uuid.UUID, text string) (*wizard.State, error)
	Suggest(ctx context.Context, userID uuid.UUID) (*dto.SuggestResponse, error)
	SelectKeyword(ctx context.Context, userID uuid.UUID, text, source string) (*wizard.State, error)
	RemoveKeyword(ctx context.Context, userID uuid.UUID, text string) (*wizard.State, error)
	Next(ctx context.Context, userID uuid.UUID) (*dto.TransitionResponse, error)
	Back(ctx context.Context, userID uuid.UUID, confirmed bool) (*dto.TransitionResponse, error)
	CompleteTransition(ctx context.Context, userID uuid.UUID) (*wizard.State, error)
	SetFilters(ctx context.Context, userID uuid.UUID, filters wizard.FilterConfig) (*wizard.State, error)
	Search(ctx context.Context, userID uuid.UUID, page int) (*dto.SearchResponse, error)
	Advance(ctx context.Context, userID uuid.UUID, delta int) (*wizard.State, error)
	Apply(ctx context.Context, userID uuid.UUID, vacancyID string) (*wizard.State, error)
	Reset(ctx context.Context, userID uuid.UUID, scope string) (*wizard.State, error)
	HistoryBack(ctx context.Context, userID uuid.UUID, confirmed bool) (*dto.HistoryBackResponse, error)
	CloseSession(userID uuid.UUID)
}

// userSession bundles one user's engine with its auto-saver and the
// goroutine relaying stale-results events to the websocket hub.
type userSession struct {
	engine *wizard.Engine
	saver  *wizard.AutoSaver
	cancel context.CancelFunc
}

type wizardService struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*userSession

	uowFactory  unitofwork.RepositoryFactory
	vacancies   IVacancyService
	suggestions ISuggestionService
	queryCache  *memory.QueryCache
	suggCache   *memory.SuggestionCache
	snapshots   *memory.SnapshotStore
	hub         *internalWS.Hub
	publisher   *pktNats.Publisher
	logger      logger.ILogger
	cfg         config.WizardConfig
}

func NewWizardService(
	uowFactory unitofwork.RepositoryFactory,
	vacancies IVacancyService,
	suggestions ISuggestionService,
	queryCache *memory.QueryCache,
	suggCache *memory.SuggestionCache,
	snapshots *memory.SnapshotStore,
	hub *internalWS.Hub,
	publisher *pktNats.Publisher,
	log logger.ILogger,
	cfg config.WizardConfig,
) IWizardService {
	return &wizardService{
		sessions:    make(map[uuid.UUID]*userSession),
		uowFactory:  uowFactory,
		vacancies:   vacancies,
		suggestions: suggestions,
		queryCache:  queryCache,
		suggCache:   suggCache,
		snapshots:   snapshots,
		hub:         hub,
		publisher:   publisher,
		logger:      log,
		cfg:         cfg,
	}
}

// compositePurger fans PurgeAll out to every derived cache.
type compositePurger struct {
	purgers []wizard.CachePurger
}

func (p compositePurger) PurgeAll() {
	for _, purger := range p.purgers {
		purger.PurgeAll()
	}
}

// sessionFor returns the user's live session, creating one (and replaying
// the stored snapshot, if any) on first touch.
func (s *wizardService) sessionFor(ctx context.Context, userID uuid.UUID) (*userSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		return sess, nil
	}

	engine := wizard.NewEngine(wizard.Config{
		MaxKeywords:        s.cfg.MaxKeywords,
		TransitionDuration: s.cfg.TransitionDuration,
	}, compositePurger{purgers: []wizard.CachePurger{s.queryCache, s.suggCache}})

	store := &repoApplicationStore{
		uowFactory: s.uowFactory,
		userID:     userID,
		hub:        s.hub,
		publisher:  s.publisher,
		logger:     s.logger,
	}

	saver, err := wizard.NewAutoSaver(engine.Bus(), engine, store, s.logger, s.cfg.SaveDebounce, s.cfg.SaveRetryDelay)
	if err != nil {
		engine.Close()
		return nil, err
	}

	relayCtx, cancelRelay := context.WithCancel(context.Background())
	if err := s.relayStaleResults(relayCtx, engine, userID); err != nil {
		cancelRelay()
		saver.Close()
		engine.Close()
		return nil, err
	}

	sess := &userSession{engine: engine, saver: saver, cancel: cancelRelay}
	s.sessions[userID] = sess

	if snap, found := s.snapshots.Get(ctx, userID); found {
		engine.RestoreSnapshot(snap)
	}
	return sess, nil
}

// relayStaleResults forwards stale-results events from the engine bus to
// the user's websocket connections.
func (s *wizardService) relayStaleResults(ctx context.Context, engine *wizard.Engine, userID uuid.UUID) error {
	msgs, err := engine.Bus().Subscribe(ctx, wizard.TopicResultsStale)
	if err != nil {
		return err
	}
	go func() {
		for msg := range msgs {
			var evt wizard.ResultsStaleEvent
			if err := json.Unmarshal(msg.Payload, &evt); err == nil {
				s.hub.Send(userID, internalWS.Notice{Type: "results_stale", Data: evt})
			}
			msg.Ack()
		}
	}()
	return nil
}

func (s *wizardService) persistSnapshot(ctx context.Context, userID uuid.UUID, sess *userSession) {
	s.snapshots.Save(ctx, userID, sess.engine.Snapshot())
}

func (s *wizardService) state(ctx context.Context, userID uuid.UUID, sess *userSession) *wizard.State {
	st := sess.engine.State()
	s.persistSnapshot(ctx, userID, sess)
	return &st
}

func (s *wizardService) StartSession(ctx context.Context, userID uuid.UUID, applicationID string) (*wizard.State, error) {
	sess, err := s.sessionFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	if applicationID != "" {
		appID, err := uuid.Parse(applicationID)
		if err != nil {
			return nil, errors.New("invalid application id")
		}
		uow := s.uowFactory.NewUnitOfWork(ctx)
		app, err := uow.ApplicationRepository().FindOne(ctx,
			specification.ByID{ID: appID},
			specification.UserOwnedBy{UserID: userID},
		)
		if err != nil {
			return nil, err
		}
		if app == nil {
			return nil, errors.New("application not found")
		}
		sess.saver.Reset()
		sess.engine.RestoreFromRecord(app.Id.String(), entityToRecord(app))
	}

	return s.state(ctx, userID, sess), nil
}

func (s *wizardService) GetState(ctx context.Context, userID uuid.UUID) (*wizard.State, error) {
	sess, err := s.sessionFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	st := sess.engine.State()
	return &st, nil
}

func (s *wizardService) SetFreeText(ctx context.Context, userID uuid.UUID, text string) (*wizard.State, error) {
	sess, err := s.sessionFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	sess.engine.SetFreeText(text)
	return s.state(ctx, userID, sess), nil
}

func (s *wizardService) Suggest(ctx context.Context, userID uuid.UUID) (*dto.SuggestResponse, error) {
	sess, err := s.sessionFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	st := sess.engine.State()
	items, err := s.suggestions.Suggest(ctx, st.FreeTextInput)
	if err != nil {
		return nil, err
	}
	sess.engine.SetSuggestions(items)
	s.persistSnapshot(ctx, userID, sess)

	keywords := make([]wizard.Keyword, len(items))
	for i, item := range items {
		keywords[i] = wizard.Keyword{Text: item, Source: wizard.SourceAISuggested}
	}
	return &dto.SuggestResponse{Keywords: keywords}, nil
}

func (s *wizardService) SelectKeyword(ctx context.Context, userID uuid.UUID, text, source string) (*wizard.State, error) {
	sess, err := s.sessionFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	src := wizard.KeywordSource(source)
	if src == "" {
		src = wizard.SourceCustom
	}
	if err := sess.engine.SelectKeyword(text, src); err != nil {
		return nil, err
	}
	return s.state(ctx, userID, sess), nil
}

func (s *wizardService) RemoveKeyword(ctx context.Context, userID uuid.UUID, text string) (*wizard.State, error) {
	sess, err := s.sessionFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	sess.engine.RemoveKeyword(text)
	return s.state(ctx, userID, sess), nil
}

func (s *wizardService) Next(ctx context.Context, userID uuid.UUID) (*dto.TransitionResponse, error) {
	sess, err := s.sessionFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	tr, err := sess.engine.GoNext()
	if err != nil {
		return nil, err
	}
	return s.transitionResponse(ctx, userID, sess, tr), nil
}

func (s *wizardService) Back(ctx context.Context, userID uuid.UUID, confirmed bool) (*dto.TransitionResponse, error) {
	sess, err := s.sessionFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	tr, err := sess.engine.GoBack(confirmed)
	if err != nil {
		return nil, err
	}
	return s.transitionResponse(ctx, userID, sess, tr), nil
}

func (s *wizardService) transitionResponse(ctx context.Context, userID uuid.UUID, sess *userSession, tr wizard.Transition) *dto.TransitionResponse {
	return &dto.TransitionResponse{
		Message:  wizard.TransitionMessage(tr.From, tr.To),
		Duration: sess.engine.TransitionDuration(tr.From, tr.To).Milliseconds(),
		State:    s.state(ctx, userID, sess),
	}
}

func (s *wizardService) CompleteTransition(ctx context.Context, userID uuid.UUID) (*wizard.State, error) {
	sess, err := s.sessionFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	sess.engine.CompleteTransition()
	return s.state(ctx, userID, sess), nil
}

func (s *wizardService) SetFilters(ctx context.Context, userID uuid.UUID, filters wizard.FilterConfig) (*wizard.State, error) {
	sess, err := s.sessionFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	sess.engine.SetFilters(filters)
	return s.state(ctx, userID, sess), nil
}

func (s *wizardService) Search(ctx context.Context, userID uuid.UUID, page int) (*dto.SearchResponse, error) {
	sess, err := s.sessionFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	st := sess.engine.State()
	if len(st.CanonicalKeywords) == 0 {
		return nil, wizard.ErrNoKeywords
	}

	result, fromCache, err := s.vacancies.Search(ctx, st, page)
	if err != nil {
		return nil, err
	}
	sess.engine.SetResults(ToVacancies(result.Items), result.Found)

	if !fromCache && s.publisher != nil {
		evt := events.NewSearchPerformed(userID.String(), wizard.SignatureHash(st.SearchSignature), result.Found)
		if err := s.publisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("WizardService", "Failed to publish search event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.SearchResponse{
		State:     s.state(ctx, userID, sess),
		FromCache: fromCache,
	}, nil
}

func (s *wizardService) Advance(ctx context.Context, userID uuid.UUID, delta int) (*wizard.State, error) {
	sess, err := s.sessionFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	sess.engine.Advance(delta)
	return s.state(ctx, userID, sess), nil
}

func (s *wizardService) Apply(ctx context.Context, userID uuid.UUID, vacancyID string) (*wizard.State, error) {
	sess, err := s.sessionFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	sess.engine.MarkApplied(vacancyID)
	return s.state(ctx, userID, sess), nil
}

func (s *wizardService) Reset(ctx context.Context, userID uuid.UUID, scope string) (*wizard.State, error) {
	sess, err := s.sessionFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	sess.saver.Reset()
	switch scope {
	case "full":
		sess.engine.FullReset()
		s.snapshots.Delete(ctx, userID)
		st := sess.engine.State()
		return &st, nil
	default:
		sess.engine.StartNewSearch()
	}
	return s.state(ctx, userID, sess), nil
}

func (s *wizardService) HistoryBack(ctx context.Context, userID uuid.UUID, confirmed bool) (*dto.HistoryBackResponse, error) {
	sess, err := s.sessionFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if confirmed {
		// The reset is about to discard the pending save state.
		sess.saver.Reset()
	}
	required := sess.engine.InterceptBack(confirmed)
	if required {
		st := sess.engine.State()
		return &dto.HistoryBackResponse{ConfirmationRequired: true, State: &st}, nil
	}
	return &dto.HistoryBackResponse{
		ConfirmationRequired: false,
		State:                s.state(ctx, userID, sess),
	}, nil
}

// CloseSession tears down the user's live session, typically on logout.
// The snapshot stays; a later login resumes from it.
func (s *wizardService) CloseSession(userID uuid.UUID) {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	if ok {
		delete(s.sessions, userID)
	}
	s.mu.Unlock()

	if ok {
		sess.cancel()
		sess.saver.Close()
		sess.engine.Close()
	}
}

// repoApplicationStore backs the engine's persistence bridge with the
// application repository, scoped to one user. Successful writes fan out a
// websocket notice and a best-effort audit event.
type repoApplicationStore struct {
	uowFactory unitofwork.RepositoryFactory
	userID     uuid.UUID
	hub        *internalWS.Hub
	publisher  *pktNats.Publisher
	logger     logger.ILogger
}

func (r *repoApplicationStore) Create(ctx context.Context, record wizard.ApplicationRecord) (string, error) {
	app := recordToEntity(record)
	app.Id = uuid.New()
	app.UserId = r.userID

	uow := r.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ApplicationRepository().Create(ctx, app); err != nil {
		return "", err
	}

	r.notifySaved(ctx, app.Id.String(), record.CurrentStep)
	return app.Id.String(), nil
}

func (r *repoApplicationStore) Update(ctx context.Context, id string, record wizard.ApplicationRecord) error {
	appID, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.ApplicationRepository().FindOne(ctx,
		specification.ByID{ID: appID},
		specification.UserOwnedBy{UserID: r.userID},
	)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.New("application not found")
	}

	app := recordToEntity(record)
	app.Id = existing.Id
	app.UserId = existing.UserId
	app.CreatedAt = existing.CreatedAt
	if err := uow.ApplicationRepository().Update(ctx, app); err != nil {
		return err
	}

	r.notifySaved(ctx, id, record.CurrentStep)
	return nil
}

func (r *repoApplicationStore) notifySaved(ctx context.Context, id string, step int) {
	r.hub.Send(r.userID, internalWS.Notice{Type: "application_saved", Data: map[string]interface{}{
		"application_id": id,
		"step":           step,
	}})

	if r.publisher != nil {
		evt := events.NewApplicationSaved(r.userID.String(), id, step)
		if err := r.publisher.Publish(ctx, evt); err != nil {
			r.logger.Warn("WizardService", "Failed to publish save event", map[string]interface{}{"error": err.Error()})
		}
	}
}

func recordToEntity(record wizard.ApplicationRecord) *entity.Application {
	return &entity.Application{
		Title:               record.Title,
		CurrentStep:         record.CurrentStep,
		SelectedKeywords:    record.SelectedKeywords,
		SuggestedKeywords:   record.SuggestedKeywords,
		Filters:             record.Filters,
		CurrentVacancyIndex: record.CurrentVacancyIndex,
		Vacancies:           record.Vacancies,
		TotalVacancies:      record.TotalVacancies,
		AppliedVacancyIds:   record.AppliedVacancyIds,
		IsCompleted:         record.IsCompleted,
	}
}

func entityToRecord(app *entity.Application) wizard.ApplicationRecord {
	return wizard.ApplicationRecord{
		Title:               app.Title,
		CurrentStep:         app.CurrentStep,
		SelectedKeywords:    app.SelectedKeywords,
		SuggestedKeywords:   app.SuggestedKeywords,
		Filters:             app.Filters,
		CurrentVacancyIndex: app.CurrentVacancyIndex,
		Vacancies:           app.Vacancies,
		TotalVacancies:      app.TotalVacancies,
		AppliedVacancyIds:   app.AppliedVacancyIds,
		IsCompleted:         app.IsCompleted,
	}
}
