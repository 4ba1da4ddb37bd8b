package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

// keyFlags son los query params opcionales de un comando.
type keyFlags struct {
	device, expiry, days string
}

// params arma los query params con sólo los flags seteados por el usuario.
func (f *keyFlags) params(cmd *cobra.Command, key string) map[string]string {
	p := map[string]string{"key": key}
	for name, v := range map[string]string{"device": f.device, "expiry": f.expiry, "days": f.days} {
		if fl := cmd.Flags().Lookup(name); fl != nil && fl.Changed {
			p[name] = v
		}
	}
	return p
}

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		baseURL = envOr("KEYCHECK_URL", "http://localhost:8080")
		format  = envOr("KEYCHECK_OUT", "text")
		timeout = 10 * time.Second
	)
	const path = "/api/check"
	cl := &client{Out: out}

	root := &cobra.Command{
		Use:          "keycheck",
		Short:        "CLI para el endpoint de license keys",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "text" {
				return fmt.Errorf("--out debe ser json|text")
			}
			cl.BaseURL = baseURL
			cl.OutFormat = format
			cl.HTTP = &http.Client{Timeout: timeout}
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(out)
	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base del servicio (env KEYCHECK_URL)")
	root.PersistentFlags().StringVar(&format, "out", format, "Formato de salida: json|text (env KEYCHECK_OUT)")
	root.PersistentFlags().DurationVar(&timeout, "timeout", timeout, "Timeout HTTP")

	call := func(cmd *cobra.Command, op, method, p string, params map[string]string, keep ...string) error {
		status, body, err := cl.do(cmd.Context(), method, p, params, keep...)
		if err != nil {
			return err
		}
		if err := check(op, status, body); err != nil {
			return err
		}
		if op == "ping" && cl.OutFormat == "text" {
			fmt.Fprintln(out, "ok")
			return nil
		}
		cl.print(status, body)
		return nil
	}

	// get
	var getF keyFlags
	getCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Valida una key (opcionalmente para un device)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, "get", http.MethodGet, path, getF.params(cmd, args[0]))
		},
	}
	getCmd.Flags().StringVar(&getF.device, "device", "", "Device fingerprint")

	// create
	var createF keyFlags
	createCmd := &cobra.Command{
		Use:   "create <key>",
		Short: "Crea una key (falla si ya existe)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, "create", http.MethodPost, path, createF.params(cmd, args[0]))
		},
	}
	addKeyFlags(createCmd, &createF)

	// update: --device "" / --expiry "" limpian el campo
	var updateF keyFlags
	updateCmd := &cobra.Command{
		Use:   "update <key>",
		Short: "Bindea un device o actualiza la expiración",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := updateF.params(cmd, args[0])
			var keep []string
			for _, k := range []string{"device", "expiry"} {
				if v, ok := params[k]; ok && v == "" {
					keep = append(keep, k)
				}
			}
			return call(cmd, "update", http.MethodPut, path, params, keep...)
		},
	}
	addKeyFlags(updateCmd, &updateF)

	unbindCmd := &cobra.Command{
		Use:   "unbind <key> <device>",
		Short: "Desbindea el device de una key (la key se conserva)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, "unbind", http.MethodDelete, path, map[string]string{"key": args[0], "device": args[1]})
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <key>",
		Short: "Borra una key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, "delete", http.MethodDelete, path, map[string]string{"key": args[0]})
		},
	}

	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Lista todas las keys (requiere keys.debug_dump)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, "dump", http.MethodGet, path, nil)
		},
	}

	pingCmd := &cobra.Command{
		Use:   "ping",
		Short: "Chequea /readyz del servicio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, "ping", http.MethodGet, "/readyz", nil)
		},
	}

	root.AddCommand(getCmd, createCmd, updateCmd, unbindCmd, deleteCmd, dumpCmd, pingCmd)
	return root
}

func addKeyFlags(cmd *cobra.Command, f *keyFlags) {
	cmd.Flags().StringVar(&f.device, "device", "", "Device fingerprint")
	cmd.Flags().StringVar(&f.expiry, "expiry", "", "Fecha de expiración YYYY-MM-DD (o RFC3339)")
	cmd.Flags().StringVar(&f.days, "days", "", "Expira en N días desde hoy")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
