// README: quote and rates subcommands; results are rendered as lipgloss tables.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"freightquote/internal/app"
	"freightquote/internal/modules/pricing"
	"freightquote/internal/types"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	selectedStyle = cellStyle.Foreground(lipgloss.Color("10"))
)

type quoteFlags struct {
	distance  float64
	icms      float64
	margin    float64
	cargoType string
	axles     string
	tolls     map[string]string
}

func newQuoteCmd() *cobra.Command {
	var f quoteFlags
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a shipment for every axle class",
		Example: `  freight-quote quote --distance 500 --icms 12 --margin 10 --toll 6=120
  freight-quote quote -d 1200 --axles 9 --toll 9=310.50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tolls, err := parseTolls(f.tolls)
			if err != nil {
				return err
			}
			svc, err := pricingService(cmd)
			if err != nil {
				return err
			}
			q, err := svc.Quote(cmd.Context(), pricing.QuoteRequest{
				CargoType:     f.cargoType,
				SelectedAxles: types.AxleClass(f.axles),
				Shipment: pricing.ShipmentInput{
					DistanceKm:    f.distance,
					Tolls:         tolls,
					ICMSPercent:   f.icms,
					MarginPercent: f.margin,
				},
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderQuote(q))
			return nil
		},
	}
	cmd.Flags().Float64VarP(&f.distance, "distance", "d", 0, "route distance in km")
	cmd.Flags().Float64Var(&f.icms, "icms", 0, "ICMS rate in percent")
	cmd.Flags().Float64Var(&f.margin, "margin", 0, "profit margin in percent")
	cmd.Flags().StringVar(&f.cargoType, "cargo-type", pricing.DefaultCargoType, "cargo type")
	cmd.Flags().StringVar(&f.axles, "axles", "6", "selected axle class")
	cmd.Flags().StringToStringVar(&f.tolls, "toll", nil, "toll per axle class, e.g. 6=120,9=180.5")
	_ = cmd.MarkFlagRequired("distance")
	return cmd
}

func newRatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rates",
		Short: "Print the active rate table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := pricingService(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRates(svc.Table()))
			return nil
		},
	}
}

func pricingService(cmd *cobra.Command) (*pricing.Service, error) {
	t, err := app.RateTable(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, err
	}
	return pricing.NewService(t, logger)
}

func parseTolls(raw map[string]string) (map[types.AxleClass]float64, error) {
	tolls := make(map[types.AxleClass]float64, len(raw))
	for k, v := range raw {
		amount, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
		if err != nil {
			return nil, fmt.Errorf("toll %s=%s: %w", k, v, err)
		}
		tolls[types.AxleClass(k)] = amount
	}
	return tolls, nil
}

func renderQuote(q pricing.Quote) string {
	selectedRow := -1
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Eixos", "Ida", "Retorno", "Piso ANTT", "ICMS", "Margem", "Pedágio", "Total", "R$/t empresa", "R$/t motorista")
	for i, r := range q.Results {
		if r.Axles == q.SelectedAxles {
			selectedRow = i
		}
		t.Row(
			string(r.Axles),
			types.FormatBRL(r.OutboundValue),
			types.FormatBRL(r.ReturnValue),
			types.FormatBRL(r.RegulatoryFloor),
			types.FormatBRL(r.ICMSAmount),
			types.FormatBRL(r.MarginAmount),
			types.FormatBRL(r.TollAmount),
			types.FormatBRL(r.FinalTotal),
			types.FormatBRL(r.PerTonneCompany),
			types.FormatBRL(r.PerTonneDriver),
		)
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch row {
		case table.HeaderRow:
			return headerStyle
		case selectedRow:
			return selectedStyle
		default:
			return cellStyle
		}
	})

	var b strings.Builder
	fmt.Fprintf(&b, "Tabela %s | %s | ICMS %.2f%% | Margem %.2f%%\n",
		q.TableVersion, q.CargoType, q.ICMSPercent, q.MarginPercent)
	b.WriteString(t.String())
	return b.String()
}

func renderRates(rt pricing.RateTable) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Eixos", "CCD (R$/km)", "CC (R$)", "Peso máx. (t)", "Operação").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, e := range rt.Entries {
		t.Row(
			string(e.Axles),
			strconv.FormatFloat(e.DisplacementCoef, 'f', 4, 64),
			strconv.FormatFloat(e.LoadingCoef, 'f', 2, 64),
			strconv.FormatFloat(e.MaxWeightTonnes, 'f', -1, 64),
			e.Operation,
		)
	}
	return fmt.Sprintf("Tabela %s | %s\n%s", rt.Version, rt.CargoType, t.String())
}
