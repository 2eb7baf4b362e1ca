package mesh

import (
	"bufio"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/ssrview/internal/logger"
)

// MaterialDef is one "newmtl" block. DiffuseMap is empty when the material
// has no "map_Kd" statement.
type MaterialDef struct {
	Name         string
	DiffuseMap   string
	DiffuseColor [3]float32
}

// mapOptionArgs lists texture map options and how many arguments they take.
// A negative count means "up to" that many numeric arguments.
var mapOptionArgs = map[string]int{
	"-blendu":  1,
	"-blendv":  1,
	"-bm":      1,
	"-boost":   1,
	"-cc":      1,
	"-clamp":   1,
	"-imfchan": 1,
	"-texres":  1,
	"-type":    1,
	"-mm":      2,
	"-o":       -3,
	"-s":       -3,
	"-t":       -3,
}

// ParseMTL reads MTL text. Statements other than newmtl, Kd and map_Kd are
// ignored. A malformed statement is logged and skipped; a newmtl without a
// name also drops the statements that follow it up to the next newmtl. Only
// read errors are returned.
func ParseMTL(r io.Reader) ([]MaterialDef, error) {
	var (
		defs    []MaterialDef
		current *MaterialDef
		line    int
	)
	log := logger.Named("mesh")

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)

		var err error
		switch fields[0] {
		case "newmtl":
			if len(fields) < 2 {
				current = nil
				err = ErrFieldCount
				break
			}
			defs = append(defs, MaterialDef{
				Name:         strings.Join(fields[1:], " "),
				DiffuseColor: [3]float32{1, 1, 1},
			})
			current = &defs[len(defs)-1]

		case "Kd":
			if current == nil {
				continue
			}
			var v []float32
			if v, err = parseFloats(fields[1:], 3); err == nil {
				copy(current.DiffuseColor[:], v)
			}

		case "map_Kd":
			if current == nil {
				continue
			}
			current.DiffuseMap = mapPath(fields[1:])
		}
		if err != nil {
			log.Warn("skipping mtl statement", zap.Error(&ParseError{Line: line, Statement: text, Err: err}))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading mtl: %w", err)
	}
	return defs, nil
}

// mapPath strips texture map options and joins the rest into a path.
func mapPath(fields []string) string {
	i := 0
	for i < len(fields) {
		n, ok := mapOptionArgs[fields[i]]
		if !ok {
			break
		}
		i++
		if n > 0 {
			i += n
			continue
		}
		for k := 0; k < -n && i < len(fields); k++ {
			if _, err := strconv.ParseFloat(fields[i], 32); err != nil {
				break
			}
			i++
		}
	}
	if i >= len(fields) {
		return ""
	}
	return strings.ReplaceAll(strings.Join(fields[i:], " "), "\\", "/")
}

// CompanionMTL returns the material library for a mesh path: the model's
// mtllib when set, otherwise the mesh base name with an .mtl extension.
// The result is relative to the same root as meshPath.
func CompanionMTL(meshPath string, m *Model) string {
	dir := path.Dir(meshPath)
	if m != nil && m.MaterialLib != "" {
		return path.Join(dir, m.MaterialLib)
	}
	return strings.TrimSuffix(meshPath, path.Ext(meshPath)) + ".mtl"
}
