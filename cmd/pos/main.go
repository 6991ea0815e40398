package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Practica-Profesional-25/acme-pos/internal/application/wizard"
	"github.com/Practica-Profesional-25/acme-pos/internal/domain/access"
	"github.com/Practica-Profesional-25/acme-pos/internal/infrastructure/api"
	"github.com/Practica-Profesional-25/acme-pos/internal/infrastructure/pdf"
	"github.com/Practica-Profesional-25/acme-pos/internal/interfaces/tui"
	"github.com/Practica-Profesional-25/acme-pos/pkg/config"
	"github.com/Practica-Profesional-25/acme-pos/pkg/logger"
	"github.com/Practica-Profesional-25/acme-pos/pkg/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	// El log va a archivo: stdout es de la interfaz.
	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("api", cfg.API.BaseURL).
		Msg("iniciando punto de venta")

	// El token puede faltar o estar vencido: la aplicación arranca igual y
	// el menú muestra todo bloqueado con el aviso de login.
	tokenString := cfg.Auth.ResolveToken()
	acc := access.New(tokenString)
	var user token.UserInfo
	if u := token.User(tokenString); u != nil {
		user = *u
	}
	log.Info().
		Bool("expirado", acc.IsExpired).
		Strs("permisos", acc.Permissions).
		Msg("sesión resuelta")

	bridge := tui.NewBridge()
	client := api.New(cfg.API.BaseURL, log,
		api.WithToken(tokenString),
		api.WithNotifier(bridge),
		api.WithTimeout(time.Duration(cfg.API.TimeoutSeconds)*time.Second),
	)

	model := tui.New(tui.Options{
		Access:   acc,
		User:     user,
		Client:   client,
		Wizard:   wizard.New(client, log),
		PDF:      pdf.NewGenerator(cfg.PDF.OutputDir),
		Bridge:   bridge,
		Log:      log,
		Comercio: cfg.App.Name,
		LoginURL: cfg.Auth.LoginURL,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	bridge.Attach(p)

	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("la interfaz terminó con error")
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	log.Info().Msg("punto de venta cerrado")
}
