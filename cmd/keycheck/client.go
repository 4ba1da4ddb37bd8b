package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type client struct {
	BaseURL   string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
	Out       io.Writer
}

// do llama al endpoint de keys con los query params dados (los vacíos se omiten
// salvo que estén en keep, para distinguir "presente y vacío" de "omitido").
func (c *client) do(ctx context.Context, method, path string, params map[string]string, keep ...string) (int, []byte, error) {
	q := url.Values{}
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}
	for _, k := range keep {
		if _, ok := q[k]; !ok {
			q.Set(k, "")
		}
	}

	u := strings.TrimRight(c.BaseURL, "/") + path
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return 0, nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, b, nil
}

// print muestra la respuesta. En modo text imprime status y message/keys.
func (c *client) print(status int, body []byte) {
	var v map[string]any
	if err := json.Unmarshal(body, &v); err != nil {
		if len(body) > 0 {
			fmt.Fprintln(c.Out, strings.TrimSpace(string(body)))
		} else {
			fmt.Fprintf(c.Out, "status=%d\n", status)
		}
		return
	}

	if c.OutFormat == "json" {
		p, _ := json.MarshalIndent(v, "", "  ")
		fmt.Fprintln(c.Out, string(p))
		return
	}

	parts := []string{fmt.Sprintf("status=%v", v["status"])}
	for _, k := range []string{"code", "message", "key", "device", "expiry"} {
		if val, ok := v[k]; ok && val != nil {
			parts = append(parts, fmt.Sprintf("%s=%v", k, val))
		}
	}
	fmt.Fprintln(c.Out, strings.Join(parts, " "))

	if list, ok := v["keys"].([]any); ok {
		for _, item := range list {
			rec, _ := item.(map[string]any)
			dev, exp := rec["device"], rec["expiry"]
			if dev == nil {
				dev = "-"
			}
			if exp == nil {
				exp = "-"
			}
			fmt.Fprintf(c.Out, "%v\t%v\t%v\n", rec["key"], dev, exp)
		}
	}
}

// check falla ante respuestas no 2xx. Los resultados de dominio (invalid, expired...) son 200.
func check(op string, status int, body []byte) error {
	if status/100 == 2 {
		return nil
	}
	return fmt.Errorf("%s failed: status=%d body=%s", op, status, strings.TrimSpace(string(body)))
}
