// Package types define tipos de dominio compartidos entre paquetes.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// NotBound es el valor que se reporta como device cuando la key no tiene device asociado.
const NotBound = "Not bound"

// DateLayout es el formato ISO de fecha de calendario usado en storage y respuestas.
const DateLayout = "2006-01-02"

// MaxYear es el último año que DateLayout puede representar.
const MaxYear = 9999

// KeyRecord es la única entidad del sistema: una license key con binding de device y expiración opcionales.
type KeyRecord struct {
	// Key identificador opaco, case-sensitive.
	Key string `json:"key"`
	// Device fingerprint del único device permitido. nil = sin bindear.
	Device *string `json:"device"`
	// Expiry fecha de calendario tras la cual la key deja de validar. nil = no expira.
	Expiry *Date `json:"expiry"`
}

// IsBound indica si la key tiene un device asociado.
func (r KeyRecord) IsBound() bool {
	return r.Device != nil
}

// DeviceOrNotBound devuelve el device o el literal "Not bound".
func (r KeyRecord) DeviceOrNotBound() string {
	if r.Device == nil {
		return NotBound
	}
	return *r.Device
}

// Clone devuelve una copia profunda (los punteros no se comparten).
func (r KeyRecord) Clone() KeyRecord {
	out := KeyRecord{Key: r.Key}
	if r.Device != nil {
		d := *r.Device
		out.Device = &d
	}
	if r.Expiry != nil {
		e := *r.Expiry
		out.Expiry = &e
	}
	return out
}

// Equal compara dos records campo a campo (incluyendo nulls).
func (r KeyRecord) Equal(o KeyRecord) bool {
	if r.Key != o.Key {
		return false
	}
	if (r.Device == nil) != (o.Device == nil) {
		return false
	}
	if r.Device != nil && *r.Device != *o.Device {
		return false
	}
	if (r.Expiry == nil) != (o.Expiry == nil) {
		return false
	}
	return r.Expiry == nil || *r.Expiry == *o.Expiry
}

// ─── Date ───

// Date es una fecha de calendario sin hora ni zona (YYYY-MM-DD).
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parsea "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return DateOf(t, time.UTC), nil
}

// ParseExpiry acepta una fecha ISO o un timestamp RFC3339.
// Los timestamps se convierten a la fecha que representan en loc.
func ParseExpiry(s string, loc *time.Location) (Date, error) {
	s = strings.TrimSpace(s)
	if d, err := ParseDate(s); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid expiry %q: expected YYYY-MM-DD or RFC3339", s)
	}
	return DateOf(t, loc), nil
}

// DateOf devuelve la fecha de calendario de t en loc.
func DateOf(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return Date{Year: y, Month: m, Day: d}
}

// AddDays suma n días (normaliza fin de mes/año).
func (d Date) AddDays(n int) Date {
	t := time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC)
	return DateOf(t, time.UTC)
}

// EndOfDay devuelve las 23:59:59 de la fecha en loc.
func (d Date) EndOfDay(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 23, 59, 59, 0, loc)
}

// Valid indica si la fecha existe en el calendario y entra en DateLayout,
// o sea si String() produce algo que ParseDate acepta.
func (d Date) Valid() bool {
	if d.Year < 0 || d.Year > MaxYear {
		return false
	}
	return DateOf(time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC), time.UTC) == d
}

// IsZero indica si la fecha no fue inicializada.
func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalJSON serializa como "YYYY-MM-DD". Falla si la fecha no se podría volver a leer.
func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		return nil, errOutOfRange(d)
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON acepta "YYYY-MM-DD".
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML permite usar Date en archivos de config (seed).
func (d Date) MarshalYAML() (any, error) {
	if !d.Valid() {
		return nil, errOutOfRange(d)
	}
	return d.String(), nil
}

func errOutOfRange(d Date) error {
	return fmt.Errorf("date %s out of range (years 0000-%04d)", d.String(), MaxYear)
}

// UnmarshalYAML acepta "YYYY-MM-DD".
func (d *Date) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ─── Field ───

// Field representa un campo opcional en un update parcial:
// omitido (Present=false), limpiado (Present=true, Value=nil) o con valor.
type Field[T any] struct {
	Present bool
	Value   *T
}

// Set construye un Field con valor.
func Set[T any](v T) Field[T] {
	return Field[T]{Present: true, Value: &v}
}

// Clear construye un Field presente pero nulo.
func Clear[T any]() Field[T] {
	return Field[T]{Present: true}
}

// Omit construye un Field ausente.
func Omit[T any]() Field[T] {
	return Field[T]{}
}
