// Package cli implementa posctl: subcomandos para registrar compras y ventas contra el
// ledger remoto y consultar los reportes del POS en la terminal.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/jhoicas/pos-bale/internal/application/analytics"
	"github.com/jhoicas/pos-bale/internal/application/inventory"
	"github.com/jhoicas/pos-bale/internal/application/ledger"
	"github.com/jhoicas/pos-bale/internal/domain"
)

// App dependencias compartidas por los subcomandos.
type App struct {
	Store     *ledger.Store
	Entries   *inventory.EntryUseCase
	Reports   *analytics.ReportUseCase
	Dashboard *analytics.DashboardUseCase

	Out io.Writer
	Err io.Writer

	// Renderer nil imprime el markdown sin formato (tests, salida redirigida).
	Renderer *glamour.TermRenderer
}

// NewRenderer crea el renderer de terminal con estilo automático (claro/oscuro).
func NewRenderer(width int) (*glamour.TermRenderer, error) {
	return glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
}

func (a *App) printMarkdown(md string) {
	if a.Renderer != nil {
		if out, err := a.Renderer.Render(md); err == nil {
			fmt.Fprint(a.Out, out)
			return
		}
	}
	fmt.Fprint(a.Out, md)
}

// fail imprime el error y elige el código de salida: errores de entrada son de uso.
func (a *App) fail(action string, err error) subcommands.ExitStatus {
	fmt.Fprintf(a.Err, "Error %s: %v\n", action, err)
	var verr *domain.ValidationError
	if errors.As(err, &verr) || errors.Is(err, domain.ErrInvalidInput) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// Register registra los subcomandos de posctl agrupados por tema.
func Register(c *subcommands.Commander, app *App) {
	c.Register(&syncCmd{app: app}, "ledger")
	c.Register(&categoriesCmd{app: app}, "ledger")
	c.Register(&addCategoryCmd{app: app}, "ledger")
	c.Register(&deleteCmd{app: app}, "ledger")

	c.Register(&buyCmd{app: app}, "transactions")
	c.Register(&sellCmd{app: app}, "transactions")
	c.Register(&purchasesCmd{app: app}, "transactions")
	c.Register(&salesCmd{app: app}, "transactions")

	c.Register(&inventoryCmd{app: app}, "reports")
	c.Register(&dashboardCmd{app: app}, "reports")
	c.Register(&analysisCmd{app: app}, "reports")
}
