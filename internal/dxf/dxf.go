// Package dxf serializes contour polylines into a minimal ASCII DXF
// document for CAD consumers: a header declaring millimeter units, a
// single-layer table, and one LWPOLYLINE entity per contour with its
// explicit vertex count and closure flag.
package dxf

import (
	"bufio"
	"io"
	"strconv"

	"github.com/fgaudin/luxgrid/internal/logic/contour"
)

// LayerName is the layer all contour entities are placed on.
const LayerName = "CONTOURS"

// insUnitsMillimeters is the DXF $INSUNITS code for millimeters.
const insUnitsMillimeters = 4

// metersToMillimeters converts the field's world unit to the drawing unit.
const metersToMillimeters = 1000.0

type writer struct {
	w   *bufio.Writer
	err error
}

func (d *writer) pair(code int, value string) {
	if d.err != nil {
		return
	}
	if _, err := d.w.WriteString(strconv.Itoa(code) + "\n" + value + "\n"); err != nil {
		d.err = err
	}
}

func (d *writer) num(code int, v float64) {
	d.pair(code, strconv.FormatFloat(v, 'f', 3, 64))
}

// Encode writes the polyline set as a DXF document. Closed polylines
// drop their duplicated seam point and carry the closed flag instead.
// World coordinates are scaled from meters to millimeters.
func Encode(out io.Writer, lines []contour.Polyline) error {
	d := &writer{w: bufio.NewWriter(out)}

	// HEADER: drawing units.
	d.pair(0, "SECTION")
	d.pair(2, "HEADER")
	d.pair(9, "$INSUNITS")
	d.pair(70, strconv.Itoa(insUnitsMillimeters))
	d.pair(0, "ENDSEC")

	// TABLES: one layer for every contour entity.
	d.pair(0, "SECTION")
	d.pair(2, "TABLES")
	d.pair(0, "TABLE")
	d.pair(2, "LAYER")
	d.pair(70, "1")
	d.pair(0, "LAYER")
	d.pair(2, LayerName)
	d.pair(70, "0")
	d.pair(62, "7")
	d.pair(6, "CONTINUOUS")
	d.pair(0, "ENDTAB")
	d.pair(0, "ENDSEC")

	// ENTITIES: one LWPOLYLINE per contour.
	d.pair(0, "SECTION")
	d.pair(2, "ENTITIES")
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		pts := line
		closedFlag := "0"
		if line.Closed() {
			pts = line[:len(line)-1]
			closedFlag = "1"
		}

		d.pair(0, "LWPOLYLINE")
		d.pair(8, LayerName)
		d.pair(90, strconv.Itoa(len(pts)))
		d.pair(70, closedFlag)
		for _, pt := range pts {
			d.num(10, pt.X*metersToMillimeters)
			d.num(20, pt.Y*metersToMillimeters)
		}
	}
	d.pair(0, "ENDSEC")
	d.pair(0, "EOF")

	if d.err != nil {
		return d.err
	}
	return d.w.Flush()
}
