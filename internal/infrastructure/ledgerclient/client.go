// Package ledgerclient implementa ledger.Remote sobre el contrato HTTP del servicio del ledger.
// Sin reintentos: cada fallo es terminal para la operación y se devuelve como *RemoteError.
package ledgerclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/pos-bale/internal/application/dto"
	"github.com/jhoicas/pos-bale/internal/application/ledger"
	"github.com/jhoicas/pos-bale/internal/domain"
	"github.com/jhoicas/pos-bale/internal/domain/entity"
	"github.com/jhoicas/pos-bale/internal/infrastructure/metrics"
	"github.com/jhoicas/pos-bale/pkg/logger"
)

// Verificar en tiempo de compilación que Client implementa ledger.Remote.
var _ ledger.Remote = (*Client)(nil)

const maxBody = 4 << 20

// RemoteError fallo de una llamada al ledger. Error() es el cuerpo de la respuesta o
// "Request failed with status N" si vino vacío; Status es 0 en fallos de red.
type RemoteError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string { return e.Message }

// Is permite errors.Is(err, domain.ErrRemote).
func (e *RemoteError) Is(target error) bool { return target == domain.ErrRemote }

func (e *RemoteError) Unwrap() error { return e.Err }

// TokenSource emite el bearer token de servicio (pkg/jwt.Source).
type TokenSource interface {
	Token() (string, error)
}

// Client cliente HTTP del ledger.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	metrics    *metrics.Metrics
	log        *logger.Logger
	now        func() time.Time
}

// Option configura el cliente.
type Option func(*Client)

// WithHTTPClient reemplaza el http.Client (tests con httptest.Server).
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.httpClient = hc } }

// WithTokenSource agrega "Authorization: Bearer" a cada request.
func WithTokenSource(ts TokenSource) Option { return func(c *Client) { c.tokens = ts } }

// WithMetrics publica cada llamada en los collectors dados.
func WithMetrics(m *metrics.Metrics) Option { return func(c *Client) { c.metrics = m } }

// WithLogger registra cada llamada (debug) y cada fallo (warn).
func WithLogger(l *logger.Logger) Option { return func(c *Client) { c.log = l.Component("ledgerclient") } }

// New construye el cliente. baseURL incluye el prefijo, ej. "https://pos-bale-back.vercel.app/api".
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ── Categorías ──

func (c *Client) ListCategories(ctx context.Context) ([]entity.Category, error) {
	var rows []dto.CategoryDTO
	if err := c.do(ctx, "list_categories", http.MethodGet, "/categories", nil, &rows); err != nil {
		return nil, err
	}
	now := c.now().UTC()
	out := make([]entity.Category, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToEntity(now))
	}
	return out, nil
}

func (c *Client) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (entity.Category, error) {
	var row dto.CategoryDTO
	if err := c.do(ctx, "create_category", http.MethodPost, "/categories", req, &row); err != nil {
		return entity.Category{}, err
	}
	return row.ToEntity(c.now().UTC()), nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, "delete_category", http.MethodDelete, "/categories/"+url.PathEscape(id), nil, nil)
}

// ── Compras ──

func (c *Client) ListPurchases(ctx context.Context) ([]entity.Purchase, error) {
	var rows []dto.PurchaseDTO
	if err := c.do(ctx, "list_purchases", http.MethodGet, "/purchases", nil, &rows); err != nil {
		return nil, err
	}
	out := make([]entity.Purchase, 0, len(rows))
	for _, r := range rows {
		p, err := r.ToEntity()
		if err != nil {
			c.log.Warn().Err(err).Str("id", r.ID).Msg("compra descartada: registro inválido")
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (c *Client) CreatePurchase(ctx context.Context, req dto.CreatePurchaseRequest) (entity.Purchase, error) {
	var row dto.PurchaseDTO
	if err := c.do(ctx, "create_purchase", http.MethodPost, "/purchases", req, &row); err != nil {
		return entity.Purchase{}, err
	}
	p, err := row.ToEntity()
	if err != nil {
		return entity.Purchase{}, &RemoteError{Op: "create_purchase", Status: http.StatusOK, Message: err.Error(), Err: err}
	}
	return p, nil
}

func (c *Client) DeletePurchase(ctx context.Context, id string) error {
	return c.do(ctx, "delete_purchase", http.MethodDelete, "/purchases/"+url.PathEscape(id), nil, nil)
}

// ── Ventas ──

func (c *Client) ListSales(ctx context.Context) ([]entity.Sale, error) {
	var rows []dto.SaleDTO
	if err := c.do(ctx, "list_sales", http.MethodGet, "/sales", nil, &rows); err != nil {
		return nil, err
	}
	out := make([]entity.Sale, 0, len(rows))
	for _, r := range rows {
		s, err := r.ToEntity()
		if err != nil {
			c.log.Warn().Err(err).Str("id", r.ID).Msg("venta descartada: registro inválido")
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (c *Client) CreateSale(ctx context.Context, req dto.CreateSaleRequest) (entity.Sale, error) {
	var row dto.SaleDTO
	if err := c.do(ctx, "create_sale", http.MethodPost, "/sales", req, &row); err != nil {
		return entity.Sale{}, err
	}
	s, err := row.ToEntity()
	if err != nil {
		return entity.Sale{}, &RemoteError{Op: "create_sale", Status: http.StatusOK, Message: err.Error(), Err: err}
	}
	return s, nil
}

func (c *Client) DeleteSale(ctx context.Context, id string) error {
	return c.do(ctx, "delete_sale", http.MethodDelete, "/sales/"+url.PathEscape(id), nil, nil)
}

// ── Transporte ──

// do ejecuta el request y decodifica la respuesta JSON en out (si no es nil).
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) (err error) {
	start := time.Now()
	defer func() {
		c.metrics.ObserveRemote(op, start, err)
		if err != nil {
			c.log.Warn().Str("op", op).Err(err).Dur("elapsed", time.Since(start)).Msg("llamada al ledger fallida")
			return
		}
		c.log.Debug().Str("op", op).Str("method", method).Str("path", path).Dur("elapsed", time.Since(start)).Msg("ledger")
	}()

	var reader io.Reader
	if body != nil {
		payload, mErr := json.Marshal(body)
		if mErr != nil {
			return fmt.Errorf("ledger %s: serializar request: %w", op, mErr)
		}
		reader = bytes.NewReader(payload)
	}

	req, rErr := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if rErr != nil {
		return fmt.Errorf("ledger %s: crear request: %w", op, rErr)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		tok, tErr := c.tokens.Token()
		if tErr != nil {
			return fmt.Errorf("ledger %s: token de servicio: %w", op, tErr)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, dErr := c.httpClient.Do(req)
	if dErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			dErr = ctxErr
		}
		return &RemoteError{Op: op, Message: dErr.Error(), Err: dErr}
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if readErr != nil {
		return &RemoteError{Op: op, Status: resp.StatusCode, Message: readErr.Error(), Err: readErr}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = fmt.Sprintf("Request failed with status %d", resp.StatusCode)
		}
		return &RemoteError{Op: op, Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		if out != nil {
			return &RemoteError{Op: op, Status: resp.StatusCode, Message: "respuesta vacía del ledger"}
		}
		return nil
	}
	if jErr := json.Unmarshal(raw, out); jErr != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(jErr, &syntaxErr) {
			return &RemoteError{Op: op, Status: resp.StatusCode, Message: "respuesta no es JSON: " + jErr.Error(), Err: jErr}
		}
		return &RemoteError{Op: op, Status: resp.StatusCode, Message: "respuesta inválida: " + jErr.Error(), Err: jErr}
	}
	return nil
}
