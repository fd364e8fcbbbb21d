// Package charts builds Vega-Lite v5 specifications for the dashboard
// charts. Specs carry their data inline and are rendered in the browser by
// vega-embed.
package charts

import (
	"encoding/json"

	"pricedash/pkg/contracts/domain"
)

// SchemaURL is the Vega-Lite schema every spec declares.
const SchemaURL = "https://vega.github.io/schema/vega-lite/v5.json"

// Palette.
const (
	ColorLine  = "#3B82F6"
	ColorBar   = "#94A3B8"
	ColorGrid  = "#F3F4F6"
	gradientHi = "rgba(59, 130, 246, 0.5)"
	gradientLo = "rgba(59, 130, 246, 0.0)"
)

// Spec is a single-view Vega-Lite specification.
type Spec struct {
	Schema   string   `json:"$schema"`
	Width    string   `json:"width,omitempty"`
	Height   int      `json:"height,omitempty"`
	Data     Data     `json:"data"`
	Mark     Mark     `json:"mark"`
	Encoding Encoding `json:"encoding"`
}

// Data holds inline values.
type Data struct {
	Values []Point `json:"values"`
}

// Point is one chart datum. Field names match the encoding channels.
type Point struct {
	Date   string  `json:"date"`
	Close  float64 `json:"Close"`
	Volume int64   `json:"Volume"`
	Amount float64 `json:"Amount"`
}

// Mark describes the graphical mark. Color is either a CSS color string or
// a *Gradient.
type Mark struct {
	Type                 string      `json:"type"`
	Line                 *LineStyle  `json:"line,omitempty"`
	Color                interface{} `json:"color,omitempty"`
	CornerRadiusTopLeft  int         `json:"cornerRadiusTopLeft,omitempty"`
	CornerRadiusTopRight int         `json:"cornerRadiusTopRight,omitempty"`
}

// LineStyle is the outline drawn on top of an area mark.
type LineStyle struct {
	Color string `json:"color"`
}

// Gradient is a Vega linear gradient.
type Gradient struct {
	Gradient string         `json:"gradient"`
	Stops    []GradientStop `json:"stops"`
	X1       float64        `json:"x1"`
	X2       float64        `json:"x2"`
	Y1       float64        `json:"y1"`
	Y2       float64        `json:"y2"`
}

type GradientStop struct {
	Offset float64 `json:"offset"`
	Color  string  `json:"color"`
}

// Encoding maps data fields to visual channels.
type Encoding struct {
	X       *Channel  `json:"x,omitempty"`
	Y       *Channel  `json:"y,omitempty"`
	Tooltip []Channel `json:"tooltip,omitempty"`
}

// Channel is a field definition.
type Channel struct {
	Field  string `json:"field"`
	Type   string `json:"type"`
	Title  string `json:"title,omitempty"`
	Format string `json:"format,omitempty"`
	Axis   *Axis  `json:"axis,omitempty"`
	Scale  *Scale `json:"scale,omitempty"`
}

// Axis configures a positional axis. A nil Title hides the axis title.
type Axis struct {
	Title     *string `json:"title"`
	Format    string  `json:"format,omitempty"`
	Labels    *bool   `json:"labels,omitempty"`
	Grid      bool    `json:"grid"`
	GridColor string  `json:"gridColor,omitempty"`
}

type Scale struct {
	Zero *bool `json:"zero,omitempty"`
}

// PriceTrend is an area chart of the closing price with a blue gradient fill.
// The y scale does not start at zero.
func PriceTrend(series domain.PriceSeries) Spec {
	title := "Prix (€)"
	return Spec{
		Schema: SchemaURL,
		Width:  "container",
		Height: 320,
		Data:   Data{Values: points(series)},
		Mark: Mark{
			Type:  "area",
			Line:  &LineStyle{Color: ColorLine},
			Color: &Gradient{
				Gradient: "linear",
				Stops: []GradientStop{
					{Offset: 0, Color: gradientHi},
					{Offset: 1, Color: gradientLo},
				},
				X1: 1, X2: 1, Y1: 1, Y2: 0,
			},
		},
		Encoding: Encoding{
			X: dateChannel(&Axis{Format: "%d %b"}),
			Y: &Channel{
				Field: "Close",
				Type:  "quantitative",
				Scale: &Scale{Zero: boolPtr(false)},
				Axis:  &Axis{Title: &title, Grid: true, GridColor: ColorGrid},
			},
			Tooltip: []Channel{
				{Field: "date", Type: "temporal", Format: "%d/%m/%Y"},
				{Field: "Close", Type: "quantitative", Format: ".2f"},
				{Field: "Volume", Type: "quantitative", Format: ","},
			},
		},
	}
}

// DailyVolume is a bar chart of traded volume per day.
func DailyVolume(series domain.PriceSeries) Spec {
	return Spec{
		Schema: SchemaURL,
		Width:  "container",
		Height: 300,
		Data:   Data{Values: points(series)},
		Mark: Mark{
			Type:                 "bar",
			Color:                ColorBar,
			CornerRadiusTopLeft:  3,
			CornerRadiusTopRight: 3,
		},
		Encoding: Encoding{
			X: dateChannel(&Axis{Labels: boolPtr(false)}),
			Y: &Channel{
				Field: "Volume",
				Type:  "quantitative",
				Axis:  &Axis{Format: ".2s", Grid: true, GridColor: ColorGrid},
			},
			Tooltip: []Channel{
				{Field: "date", Type: "temporal", Format: "%d/%m/%Y"},
				{Field: "Volume", Type: "quantitative", Format: ","},
				{Field: "Amount", Type: "quantitative", Format: ",.2f"},
			},
		},
	}
}

// JSON returns the spec as a JSON document for embedding in a page.
func (s Spec) JSON() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func dateChannel(axis *Axis) *Channel {
	return &Channel{Field: "date", Type: "temporal", Axis: axis}
}

func points(series domain.PriceSeries) []Point {
	out := make([]Point, len(series))
	for i, rec := range series {
		out[i] = Point{
			Date:   rec.Date.Format(domain.DateFormat),
			Close:  rec.Close,
			Volume: rec.Volume,
			Amount: rec.Amount,
		}
	}
	return out
}

func boolPtr(b bool) *bool { return &b }
