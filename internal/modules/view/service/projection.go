package service

import (
	"fmt"
	"io"
	"stock_watch/internal/models"

	"github.com/olekukonko/tablewriter"
)

type Kind int

const (
	KindText Kind = iota
	KindDecimal
	KindPercent
)

type Column struct {
	Title string
	Field string
	Kind  Kind
	value func(r models.MetricsRecord) *float64
}

// Table готовые к показу строки, порядок как в Dataset
type Table struct {
	Header []string
	Rows   [][]string
}

var columns = []Column{
	{Title: "Code", Field: "symbol", Kind: KindText},
	{Title: "Change (%)", Field: "regularMarketChangePercent", Kind: KindDecimal,
		value: func(r models.MetricsRecord) *float64 { return r.ChangePercent }},
	{Title: "Market Price", Field: "regularMarketPrice", Kind: KindDecimal,
		value: func(r models.MetricsRecord) *float64 { return r.Price }},
	{Title: "Dividend Yield (%)", Field: "dividendYield", Kind: KindDecimal,
		value: func(r models.MetricsRecord) *float64 { return r.DividendYield }},
	{Title: "Trailing Annual Dividend Yield (%)", Field: "trailingAnnualDividendYield", Kind: KindPercent,
		value: func(r models.MetricsRecord) *float64 { return r.TrailingAnnualDividendYield }},
	{Title: "Trailing P/E", Field: "trailingPE", Kind: KindDecimal,
		value: func(r models.MetricsRecord) *float64 { return r.TrailingPE }},
	{Title: "Forward P/E", Field: "forwardPE", Kind: KindDecimal,
		value: func(r models.MetricsRecord) *float64 { return r.ForwardPE }},
	{Title: "ROA (%)", Field: "returnOnAssets", Kind: KindPercent,
		value: func(r models.MetricsRecord) *float64 { return r.ReturnOnAssets }},
	{Title: "ROE (%)", Field: "returnOnEquity", Kind: KindPercent,
		value: func(r models.MetricsRecord) *float64 { return r.ReturnOnEquity }},
}

func Columns() []Column {
	out := make([]Column, len(columns))
	copy(out, columns)
	return out
}

// FormatDecimal 2 знака, пусто если значения нет
func FormatDecimal(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}

// FormatPercent доля -> проценты: 0.0523 => "5.23%"
func FormatPercent(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f%%", *v*100)
}

func (c Column) Format(r models.MetricsRecord) string {
	switch c.Kind {
	case KindDecimal:
		return FormatDecimal(c.value(r))
	case KindPercent:
		return FormatPercent(c.value(r))
	default:
		return r.Symbol
	}
}

func Project(ds models.Dataset) Table {
	t := Table{
		Header: make([]string, 0, len(columns)),
		Rows:   make([][]string, 0, len(ds)),
	}
	for _, c := range columns {
		t.Header = append(t.Header, c.Title)
	}
	for _, r := range ds {
		row := make([]string, 0, len(columns))
		for _, c := range columns {
			row = append(row, c.Format(r))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Render рисует таблицу текстом (CLI, телеграм в моноширинном блоке)
func Render(w io.Writer, t Table) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(t.Header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.AppendBulk(t.Rows)
	table.Render()
}
