package audit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Actions d'audit
const (
	ActionUserCreate    = "user.create"
	ActionUserDelete    = "user.delete"
	ActionRoleAssign    = "role.assign"
	ActionMenuCreate    = "menu.create"
	ActionMenuUpdate    = "menu.update"
	ActionMenuDelete    = "menu.delete"
	ActionMenuImage     = "menu.image_upload"
	ActionPaymentRecord = "payment.record"
)

// Ressources d'audit
const (
	ResourceUser    = "user"
	ResourceMenu    = "menu"
	ResourcePayment = "payment"
)

type Entry struct {
	UserEmail  string
	Action     string
	Resource   string
	ResourceID string
	IPAddress  string
	UserAgent  string
	RequestID  string
	Status     int
	Success    bool
	ErrorMsg   string
	Timestamp  time.Time
}

// Sink persiste une entrée d'audit.
type Sink interface {
	Record(ctx context.Context, e Entry) error
}

// LogSink écrit les entrées dans le logger applicatif, utilisé quand Scylla n'est pas configuré.
type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger.With().Str("component", "audit").Logger()}
}

func (s *LogSink) Record(_ context.Context, e Entry) error {
	s.logger.Info().
		Str("user_email", e.UserEmail).
		Str("action", e.Action).
		Str("resource", e.Resource).
		Str("resource_id", e.ResourceID).
		Str("ip", e.IPAddress).
		Str("request_id", e.RequestID).
		Int("status", e.Status).
		Bool("success", e.Success).
		Time("at", e.Timestamp).
		Msg("audit")
	return nil
}

// Recorder enregistre les entrées en arrière-plan pour ne pas ralentir la requête.
type Recorder struct {
	sink    Sink
	logger  zerolog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewRecorder(sink Sink, logger zerolog.Logger) *Recorder {
	return &Recorder{sink: sink, logger: logger, timeout: 5 * time.Second}
}

func (r *Recorder) Log(e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := r.sink.Record(ctx, e); err != nil {
			r.logger.Error().Err(err).Str("action", e.Action).Msg("❌ audit record failed")
		}
	}()
}

// Wait attend la fin des écritures en cours (arrêt du serveur, tests).
func (r *Recorder) Wait() {
	r.wg.Wait()
}
