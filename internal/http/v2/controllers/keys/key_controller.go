// Package keys contiene el controller del endpoint de license keys.
//
// Todo el endpoint es query-string: GET valida, POST crea, PUT bindea/actualiza,
// DELETE desbindea (con device) o borra (sin device). Los resultados de dominio
// responden 200 con un campo status; sólo errores de request o de storage usan 4xx/5xx.
package keys

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dropDatabas3/keycheck/internal/domain/types"
	dto "github.com/dropDatabas3/keycheck/internal/http/v2/dto/keys"
	httperrors "github.com/dropDatabas3/keycheck/internal/http/v2/errors"
	"github.com/dropDatabas3/keycheck/internal/http/v2/helpers"
	svc "github.com/dropDatabas3/keycheck/internal/http/v2/services/keys"
	"github.com/dropDatabas3/keycheck/internal/keys"
	"github.com/dropDatabas3/keycheck/internal/observability/logger"
)

// Options ajusta el comportamiento del controller.
type Options struct {
	// DebugDump habilita listar todos los records con GET sin key.
	DebugDump bool
}

// KeyController maneja el endpoint de license keys.
type KeyController struct {
	service svc.KeyService
	opts    Options
}

// NewKeyController crea un nuevo controller de keys.
func NewKeyController(service svc.KeyService, opts Options) *KeyController {
	return &KeyController{service: service, opts: opts}
}

// Check maneja GET ?key=&device=
func (c *KeyController) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("KeyController.Check"))

	key := helpers.QueryString(r, "key")
	if blank(key) {
		if !c.opts.DebugDump {
			httperrors.WriteErrorCtx(w, r, httperrors.ErrMissingKey)
			return
		}
		recs, err := c.service.List(ctx)
		if err != nil {
			c.writeServiceError(w, r, err)
			return
		}
		if recs == nil {
			recs = []types.KeyRecord{}
		}
		log.Debug("debug dump served", logger.Count(len(recs)))
		helpers.WriteJSON(w, http.StatusOK, dto.DumpResponse{Status: dto.StatusOK, Keys: recs})
		return
	}

	d, err := c.service.Check(ctx, key, helpers.QueryString(r, "device"))
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	switch d.Outcome {
	case keys.OutcomeValid:
		helpers.WriteJSON(w, http.StatusOK, dto.CheckResponse{
			Status: dto.StatusOK,
			Key:    d.Key,
			Device: d.DeviceOrNotBound(),
			Expiry: d.Expiry,
		})
	case keys.OutcomeInvalidDevice:
		writeStatus(w, dto.StatusInvalidDevice, dto.MsgDeviceMismatch)
	case keys.OutcomeExpired:
		writeStatus(w, dto.StatusError, dto.MsgExpired)
	default:
		writeStatus(w, dto.StatusInvalid, dto.MsgKeyNotExist)
	}
}

// Create maneja POST ?key=&device=&expiry=|days=
func (c *KeyController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key, ok := requireKey(w, r)
	if !ok {
		return
	}
	expiry, ok := c.resolveExpiry(w, r)
	if !ok {
		return
	}

	res, err := c.service.Create(ctx, keys.CreateInput{
		Key:    key,
		Device: helpers.QueryString(r, "device"),
		Expiry: expiry.Value,
	})
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	if res.Outcome != keys.OutcomeCreated {
		writeStatus(w, dto.StatusError, dto.MsgKeyExists)
		return
	}
	writeMutation(w, dto.MsgKeyCreated, res.Record)
}

// Update maneja PUT ?key=&device=&expiry=|days=
// Parámetros omitidos no se tocan; presentes y vacíos limpian el campo.
func (c *KeyController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key, ok := requireKey(w, r)
	if !ok {
		return
	}
	expiry, ok := c.resolveExpiry(w, r)
	if !ok {
		return
	}

	in := keys.UpdateInput{Key: key, Expiry: expiry}
	if dev := helpers.QueryParam(r, "device"); dev != nil {
		if *dev == "" {
			in.Device = types.Clear[string]()
		} else {
			in.Device = types.Set(*dev)
		}
	}

	res, err := c.service.BindOrUpdate(ctx, in)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	switch res.Outcome {
	case keys.OutcomeUpdated:
		writeMutation(w, dto.MsgKeyUpdated, res.Record)
	case keys.OutcomeAlreadyBound:
		writeStatus(w, dto.StatusInvalidDevice, dto.MsgAlreadyBound)
	case keys.OutcomeExpired:
		writeStatus(w, dto.StatusExpired, dto.MsgExpired)
	default:
		writeStatus(w, dto.StatusError, dto.MsgKeyMissing)
	}
}

// Delete maneja DELETE ?key=&device=
// Con device desbindea y conserva la key; sin device la borra.
func (c *KeyController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key, ok := requireKey(w, r)
	if !ok {
		return
	}

	in := keys.UnbindInput{Key: key}
	if dev := helpers.QueryParam(r, "device"); dev != nil {
		// device= vacío no debe degradar a un borrado completo
		if *dev == "" {
			httperrors.WriteErrorCtx(w, r, httperrors.ErrInvalidParameter.WithDetail("device must not be empty"))
			return
		}
		in.Device = *dev
	}

	res, err := c.service.UnbindOrDelete(ctx, in)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}

	switch res.Outcome {
	case keys.OutcomeUnbound:
		helpers.WriteJSON(w, http.StatusOK, dto.DeleteResponse{Status: dto.StatusOK, Message: dto.MsgDeviceUnbound, Key: key})
	case keys.OutcomeDeleted:
		helpers.WriteJSON(w, http.StatusOK, dto.DeleteResponse{Status: dto.StatusOK, Message: dto.MsgKeyDeleted, Key: key})
	case keys.OutcomeDeviceMismatch:
		writeStatus(w, dto.StatusInvalidDevice, dto.MsgDeviceMismatch)
	default:
		writeStatus(w, dto.StatusError, dto.MsgKeyMissing)
	}
}

// ─── helpers ───

// blank: una key sólo de espacios cuenta como ausente; si no, se usa tal cual.
func blank(key string) bool {
	return strings.TrimSpace(key) == ""
}

func requireKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := helpers.QueryString(r, "key")
	if blank(key) {
		httperrors.WriteErrorCtx(w, r, httperrors.ErrMissingKey)
		return "", false
	}
	return key, true
}

func (c *KeyController) resolveExpiry(w http.ResponseWriter, r *http.Request) (types.Field[types.Date], bool) {
	f, err := keys.ResolveExpiry(
		helpers.QueryParam(r, "expiry"),
		helpers.QueryParam(r, "days"),
		c.service.Now(),
		c.service.Location(),
	)
	if err != nil {
		httperrors.WriteErrorCtx(w, r, httperrors.ErrInvalidParameter.WithDetail(err.Error()))
		return f, false
	}
	return f, true
}

func (c *KeyController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var se *keys.StoreError
	if errors.As(err, &se) {
		httperrors.WriteErrorCtx(w, r, httperrors.ErrStoreUnavailable.WithCause(err))
		return
	}
	httperrors.WriteErrorCtx(w, r, err)
}

func writeStatus(w http.ResponseWriter, status, msg string) {
	helpers.WriteJSON(w, http.StatusOK, dto.StatusResponse{Status: status, Message: msg})
}

func writeMutation(w http.ResponseWriter, msg string, rec *types.KeyRecord) {
	resp := dto.MutationResponse{Status: dto.StatusOK, Message: msg}
	if rec != nil {
		resp.Key = rec.Key
		resp.Device = rec.DeviceOrNotBound()
		resp.Expiry = rec.Expiry
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}
