package helpers

import "net/http"

// QueryParam distingue parámetro ausente (nil) de presente-vacío ("").
// El valor se devuelve tal cual: key y device son opacos. Con valores repetidos gana el primero.
func QueryParam(r *http.Request, name string) *string {
	vals, ok := r.URL.Query()[name]
	if !ok {
		return nil
	}
	v := ""
	if len(vals) > 0 {
		v = vals[0]
	}
	return &v
}

// QueryString devuelve el parámetro o "" si está ausente.
func QueryString(r *http.Request, name string) string {
	if p := QueryParam(r, name); p != nil {
		return *p
	}
	return ""
}
