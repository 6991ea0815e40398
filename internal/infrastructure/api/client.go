// Package api implementa el cliente tipado hacia la API REST de ACME.
//
// Usa net/http de la stdlib; no requiere librerías de terceros. Es la única
// capa que traduce fallas de transporte en los errores estructurados que ve
// la interfaz: las capas superiores capturan en la frontera de cada operación
// y guardan un mensaje presentable, nunca dejan escapar un error crudo.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Practica-Profesional-25/acme-pos/internal/domain"
	"github.com/Practica-Profesional-25/acme-pos/pkg/logger"
)

// Notifier recibe los avisos que el interceptor dispara antes de propagar el
// error al caller. La implementación real los muestra en la TUI y agenda la
// redirección al login; en tests se inyecta un spy.
type Notifier interface {
	// SessionExpired se dispara en 401: "Sesión expirada, inicia sesión
	// nuevamente" más redirección diferida al punto de entrada del login.
	SessionExpired()
	// AccessDenied se dispara en 403, nombrando los permisos que habrían
	// hecho falta cuando se conocen.
	AccessDenied(required []string)
}

// NopNotifier descarta los avisos.
type NopNotifier struct{}

func (NopNotifier) SessionExpired()       {}
func (NopNotifier) AccessDenied([]string) {}

// HTTPError error estructurado de una respuesta no exitosa.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("error %d: %s", e.Status, http.StatusText(e.Status))
}

// Client cliente HTTP hacia la API de ACME. Todas las operaciones van contra
// una base URL fija y devuelven el sobre {success, message, data, ...}.
type Client struct {
	baseURL  string
	token    string
	http     *http.Client
	notifier Notifier
	log      *logger.Logger
}

// Option configura el cliente.
type Option func(*Client)

// WithToken adjunta el bearer token a cada request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithNotifier registra el receptor de avisos 401/403.
func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithTimeout fija el timeout de cada request HTTP.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient reemplaza el *http.Client subyacente (tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New construye el cliente contra la base URL dada.
func New(baseURL string, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 30 * time.Second},
		notifier: NopNotifier{},
		log:      log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope sobre común de todas las respuestas del backend.
type envelope struct {
	Success bool            `json:"success"`
	Message apiMessage      `json:"message"`
	Data    json.RawMessage `json:"data"`
	Page
}

// apiMessage acepta el campo message como string o como lista de strings
// (las validaciones del backend llegan como lista) y lo une en un solo texto.
type apiMessage string

func (m *apiMessage) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*m = apiMessage(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*m = apiMessage(strings.Join(list, ", "))
		return nil
	}
	// Forma inesperada: se conserva el JSON crudo como texto.
	*m = apiMessage(string(b))
	return nil
}

// do ejecuta una request y aplica el interceptor de estado HTTP antes de que
// el caller vea el cuerpo: 401 notifica sesión expirada, 403 acceso denegado,
// y en ambos casos el error igualmente sube — el interceptor no se traga la
// falla. Devuelve el sobre ya decodificado con success garantizado en true.
func (c *Client) do(ctx context.Context, method, path string, query map[string]string, body any, requiredPerms []string) (*envelope, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		values := url.Values{}
		for k, v := range query {
			values.Set(k, v)
		}
		u += "?" + values.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("api: serializar cuerpo: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("api: construir request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("method", method).Str("path", path).Msg("fallo de red")
		return nil, fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("api: leer respuesta: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		c.log.Warn().Str("path", path).Msg("401: sesión expirada")
		c.notifier.SessionExpired()
		return nil, fmt.Errorf("%w: %s", domain.ErrSesionExpirada, serverMessage(raw, resp.StatusCode))
	case http.StatusForbidden:
		c.log.Warn().Str("path", path).Strs("required", requiredPerms).Msg("403: acceso denegado")
		c.notifier.AccessDenied(requiredPerms)
		return nil, fmt.Errorf("%w: %s", domain.ErrAccesoDenegado, serverMessage(raw, resp.StatusCode))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{Status: resp.StatusCode, Message: serverMessage(raw, resp.StatusCode)}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("api: decodificar respuesta de %s: %w", path, err)
	}
	if !env.Success {
		return nil, &HTTPError{Status: resp.StatusCode, Message: string(env.Message)}
	}
	return &env, nil
}

// serverMessage extrae el mensaje del cuerpo de error (string o lista unida);
// si no hay cuerpo parseable devuelve el texto del status.
func serverMessage(raw []byte, status int) string {
	var body struct {
		Message apiMessage `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return string(body.Message)
	}
	return http.StatusText(status)
}

// decodeData decodifica el campo data del sobre en dst.
func decodeData(env *envelope, dst any) error {
	if len(env.Data) == 0 {
		return fmt.Errorf("api: respuesta sin data")
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		return fmt.Errorf("api: decodificar data: %w", err)
	}
	return nil
}
