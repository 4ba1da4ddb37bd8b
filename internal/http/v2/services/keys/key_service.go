package keys

import (
	"context"
	"errors"
	"time"

	"github.com/dropDatabas3/keycheck/internal/domain/repository"
	"github.com/dropDatabas3/keycheck/internal/domain/types"
	"github.com/dropDatabas3/keycheck/internal/keys"
	"github.com/dropDatabas3/keycheck/internal/observability/logger"
	"github.com/dropDatabas3/keycheck/internal/util"
	"go.uber.org/zap"
)

// maxCASAttempts es la cantidad de lecturas+escrituras condicionales antes de rendirse.
const maxCASAttempts = 3

// Recorder recibe los resultados para métricas. *metrics.Metrics lo implementa.
type Recorder interface {
	RecordDecision(op, outcome string)
	RecordStoreError(op string)
	RecordCASRetry(op string)
}

// Result es el resultado de una mutación.
// Record es el estado resultante cuando la operación escribió (o lo habría hecho).
type Result struct {
	Outcome keys.Outcome
	Record  *types.KeyRecord
}

// KeyService define las operaciones sobre license keys.
// Los Outcome de dominio se devuelven como valor; error sólo significa StoreError.
type KeyService interface {
	Check(ctx context.Context, key, device string) (keys.Decision, error)
	Create(ctx context.Context, in keys.CreateInput) (Result, error)
	BindOrUpdate(ctx context.Context, in keys.UpdateInput) (Result, error)
	UnbindOrDelete(ctx context.Context, in keys.UnbindInput) (Result, error)
	List(ctx context.Context) ([]types.KeyRecord, error)

	// Now y Location exponen el reloj de referencia (parseo de expiry/days).
	Now() time.Time
	Location() *time.Location
}

// KeyDeps contiene las dependencias del KeyService.
type KeyDeps struct {
	Repo                repository.LicenseKeyRepository
	Clock               func() time.Time // nil => time.Now
	Location            *time.Location   // nil => UTC
	DeleteExpiredOnRead bool
	Recorder            Recorder // opcional
}

type keyService struct {
	deps KeyDeps
}

// NewKeyService crea un nuevo KeyService.
func NewKeyService(deps KeyDeps) KeyService {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	return &keyService{deps: deps}
}

const componentKeys = "keys"

func (s *keyService) Now() time.Time           { return s.deps.Clock() }
func (s *keyService) Location() *time.Location { return s.deps.Location }

func (s *keyService) log(ctx context.Context, op string) *zap.Logger {
	return logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentKeys),
		logger.Op(op),
	)
}

// Check evalúa key+device. Con DeleteExpiredOnRead una key expirada se borra (best-effort).
func (s *keyService) Check(ctx context.Context, key, device string) (keys.Decision, error) {
	log := s.log(ctx, "Check").With(logger.LicenseKey(key))

	rec, err := s.get(ctx, "get", key)
	if err != nil {
		log.Error("store read failed", logger.Err(err))
		return keys.Decision{}, err
	}

	d := keys.Evaluate(rec, device, s.deps.Clock(), s.deps.Location)
	if d.Outcome == keys.OutcomeExpired {
		s.deleteExpired(ctx, log, rec)
	}

	s.record("check", d.Outcome)
	log.Debug("key evaluated", logger.Outcome(string(d.Outcome)), logger.Device(device))
	return d, nil
}

func (s *keyService) Create(ctx context.Context, in keys.CreateInput) (Result, error) {
	log := s.log(ctx, "Create").With(logger.LicenseKey(in.Key))

	rec, out := keys.ApplyCreate(nil, in)
	err := s.deps.Repo.Create(ctx, rec)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrConflict):
		out = keys.OutcomeAlreadyExists
	default:
		s.storeError("create")
		log.Error("store create failed", logger.Err(err))
		return Result{}, keys.NewStoreError("create", err)
	}

	s.record("create", out)
	log.Info("create handled", logger.Outcome(string(out)), logger.Device(util.MaskDevice(in.Device)))
	if out != keys.OutcomeCreated {
		return Result{Outcome: out}, nil
	}
	return Result{Outcome: out, Record: &rec}, nil
}

// BindOrUpdate aplica strict-bind con compare-and-swap; ante un CAS perdido relee y reaplica la regla.
func (s *keyService) BindOrUpdate(ctx context.Context, in keys.UpdateInput) (Result, error) {
	log := s.log(ctx, "BindOrUpdate").With(logger.LicenseKey(in.Key))

	for attempt := 1; attempt <= maxCASAttempts; attempt++ {
		rec, err := s.get(ctx, "update", in.Key)
		if err != nil {
			log.Error("store read failed", logger.Err(err))
			return Result{}, err
		}

		next, out := keys.ApplyUpdate(rec, in, s.deps.Clock(), s.deps.Location)
		if out == keys.OutcomeExpired {
			s.deleteExpired(ctx, log, rec)
		}
		if out != keys.OutcomeUpdated {
			s.record("update", out)
			log.Info("update rejected", logger.Outcome(string(out)))
			return Result{Outcome: out}, nil
		}
		if next.Equal(*rec) {
			s.record("update", out)
			return Result{Outcome: out, Record: &next}, nil
		}

		err = s.deps.Repo.Update(ctx, *rec, next)
		switch {
		case err == nil:
			s.record("update", out)
			log.Info("key updated", logger.Attempt(attempt), logger.Device(maskDevice(next.Device)))
			return Result{Outcome: out, Record: &next}, nil
		case errors.Is(err, repository.ErrPreconditionFailed), errors.Is(err, repository.ErrNotFound):
			// otro writer ganó; la próxima lectura decide (incluye NotFound si lo borraron)
			s.casRetry("update")
			log.Debug("compare-and-swap lost, retrying", logger.Attempt(attempt))
			continue
		default:
			s.storeError("update")
			log.Error("store update failed", logger.Err(err))
			return Result{}, keys.NewStoreError("update", err)
		}
	}

	s.storeError("update")
	log.Warn("compare-and-swap retries exhausted")
	return Result{}, keys.NewStoreError("update", keys.ErrConcurrentUpdate)
}

// UnbindOrDelete: con device limpia el binding (CAS), sin device borra la key.
func (s *keyService) UnbindOrDelete(ctx context.Context, in keys.UnbindInput) (Result, error) {
	log := s.log(ctx, "UnbindOrDelete").With(logger.LicenseKey(in.Key))

	for attempt := 1; attempt <= maxCASAttempts; attempt++ {
		rec, err := s.get(ctx, "unbind", in.Key)
		if err != nil {
			log.Error("store read failed", logger.Err(err))
			return Result{}, err
		}

		next, out := keys.ApplyUnbind(rec, in)
		switch out {
		case keys.OutcomeDeleted:
			if err := s.deps.Repo.Delete(ctx, in.Key); err != nil {
				s.storeError("delete")
				log.Error("store delete failed", logger.Err(err))
				return Result{}, keys.NewStoreError("delete", err)
			}
			s.record("delete", out)
			log.Info("key deleted")
			return Result{Outcome: out}, nil

		case keys.OutcomeUnbound:
			if rec.Device == nil {
				// ya estaba sin bindear
				s.record("unbind", out)
				return Result{Outcome: out, Record: &next}, nil
			}
			err := s.deps.Repo.Update(ctx, *rec, next)
			switch {
			case err == nil:
				s.record("unbind", out)
				log.Info("device unbound", logger.Attempt(attempt))
				return Result{Outcome: out, Record: &next}, nil
			case errors.Is(err, repository.ErrPreconditionFailed), errors.Is(err, repository.ErrNotFound):
				s.casRetry("unbind")
				log.Debug("compare-and-swap lost, retrying", logger.Attempt(attempt))
				continue
			default:
				s.storeError("unbind")
				log.Error("store update failed", logger.Err(err))
				return Result{}, keys.NewStoreError("unbind", err)
			}

		default:
			s.record("unbind", out)
			log.Info("unbind rejected", logger.Outcome(string(out)))
			return Result{Outcome: out}, nil
		}
	}

	s.storeError("unbind")
	log.Warn("compare-and-swap retries exhausted")
	return Result{}, keys.NewStoreError("unbind", keys.ErrConcurrentUpdate)
}

func (s *keyService) List(ctx context.Context) ([]types.KeyRecord, error) {
	recs, err := s.deps.Repo.List(ctx)
	if err != nil {
		s.storeError("list")
		s.log(ctx, "List").Error("store list failed", logger.Err(err))
		return nil, keys.NewStoreError("list", err)
	}
	return recs, nil
}

// ─── helpers ───

// get traduce ErrNotFound a (nil, nil); cualquier otro error es StoreError.
func (s *keyService) get(ctx context.Context, op, key string) (*types.KeyRecord, error) {
	rec, err := s.deps.Repo.Get(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		s.storeError(op)
		return nil, keys.NewStoreError(op, err)
	}
	return rec, nil
}

// deleteExpired borra rec sólo si sigue almacenado tal cual se leyó;
// una renovación concurrente gana sobre el borrado.
func (s *keyService) deleteExpired(ctx context.Context, log *zap.Logger, rec *types.KeyRecord) {
	if !s.deps.DeleteExpiredOnRead || rec == nil {
		return
	}
	err := s.deps.Repo.DeleteIf(ctx, *rec)
	switch {
	case err == nil:
		log.Info("expired key deleted")
	case errors.Is(err, repository.ErrPreconditionFailed), errors.Is(err, repository.ErrNotFound):
		log.Debug("expired key changed before cleanup, kept", logger.Err(err))
	default:
		s.storeError("delete_expired")
		log.Warn("expired key cleanup failed", logger.Err(err))
	}
}

func maskDevice(d *string) string {
	if d == nil {
		return ""
	}
	return util.MaskDevice(*d)
}

func (s *keyService) record(op string, out keys.Outcome) {
	if s.deps.Recorder != nil {
		s.deps.Recorder.RecordDecision(op, string(out))
	}
}

func (s *keyService) storeError(op string) {
	if s.deps.Recorder != nil {
		s.deps.Recorder.RecordStoreError(op)
	}
}

func (s *keyService) casRetry(op string) {
	if s.deps.Recorder != nil {
		s.deps.Recorder.RecordCASRetry(op)
	}
}
