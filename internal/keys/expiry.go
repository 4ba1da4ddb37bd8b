package keys

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dropDatabas3/keycheck/internal/domain/types"
)

// MaxDays es el mayor valor aceptado para days (unos 100 años).
const MaxDays = 36500

// ResolveExpiry interpreta los parámetros de expiración de un request.
//
//   - expiry presente: fecha ISO o RFC3339; vacío limpia la expiración
//   - days presente (y expiry no): hoy + days en loc
//   - ninguno: campo omitido
func ResolveExpiry(expiry, days *string, now time.Time, loc *time.Location) (types.Field[types.Date], error) {
	if expiry != nil {
		s := strings.TrimSpace(*expiry)
		if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "none") {
			return types.Clear[types.Date](), nil
		}
		d, err := types.ParseExpiry(s, loc)
		if err != nil {
			return types.Field[types.Date]{}, fmt.Errorf("%w: %v", ErrInvalidExpiry, err)
		}
		if !d.Valid() {
			return types.Field[types.Date]{}, fmt.Errorf("%w: %s is out of range", ErrInvalidExpiry, d)
		}
		return types.Set(d), nil
	}
	if days != nil {
		s := strings.TrimSpace(*days)
		if s == "" {
			return types.Clear[types.Date](), nil
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 || n > MaxDays {
			return types.Field[types.Date]{}, fmt.Errorf("%w: days must be an integer between 0 and %d, got %q", ErrInvalidExpiry, MaxDays, s)
		}
		d := types.DateOf(now, loc).AddDays(n)
		if !d.Valid() {
			return types.Field[types.Date]{}, fmt.Errorf("%w: %s is out of range", ErrInvalidExpiry, d)
		}
		return types.Set(d), nil
	}
	return types.Omit[types.Date](), nil
}
