package luastyle

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/wegman-software/vec2globe-go/style"
)

// parseStyles converts a script return value into resolved styles. A
// single style table and a list of style tables are both accepted; nil or
// false means "do not render".
func parseStyles(v lua.LValue) ([]style.Style, error) {
	switch v.Type() {
	case lua.LTNil, lua.LTBool:
		return nil, nil
	case lua.LTTable:
	default:
		return nil, fmt.Errorf("style function returned %s, want table", v.Type())
	}

	tbl := v.(*lua.LTable)

	// a list of styles has numeric keys; a single style has none
	if tbl.RawGetInt(1).Type() == lua.LTTable {
		var styles []style.Style
		var err error
		tbl.ForEach(func(_, item lua.LValue) {
			if err != nil || item.Type() != lua.LTTable {
				return
			}
			var st style.Style
			st, err = parseStyle(item.(*lua.LTable))
			if err == nil {
				styles = append(styles, st)
			}
		})
		return styles, err
	}

	st, err := parseStyle(tbl)
	if err != nil {
		return nil, err
	}
	return []style.Style{st}, nil
}

func parseStyle(tbl *lua.LTable) (style.Style, error) {
	var st style.Style

	if fill, ok := subTable(tbl, "fill"); ok {
		c, err := colorField(fill, "color")
		if err != nil {
			return st, fmt.Errorf("fill: %w", err)
		}
		st.Fill = &style.Fill{Color: c}
	}

	if strokeTbl, ok := subTable(tbl, "stroke"); ok {
		stroke, err := parseStroke(strokeTbl)
		if err != nil {
			return st, fmt.Errorf("stroke: %w", err)
		}
		st.Stroke = stroke
	}

	if iconTbl, ok := subTable(tbl, "icon"); ok {
		st.Icon = &style.Icon{
			Src:   stringField(iconTbl, "src"),
			Scale: numberField(iconTbl, "scale"),
		}
	}

	if textTbl, ok := subTable(tbl, "text"); ok {
		text := &style.Text{
			Content:  stringField(textTbl, "content"),
			Font:     stringField(textTbl, "font"),
			OffsetX:  numberField(textTbl, "offset_x"),
			OffsetY:  numberField(textTbl, "offset_y"),
			Align:    stringField(textTbl, "align"),
			Baseline: stringField(textTbl, "baseline"),
		}
		if fill, ok := subTable(textTbl, "fill"); ok {
			c, err := colorField(fill, "color")
			if err != nil {
				return st, fmt.Errorf("text fill: %w", err)
			}
			text.Fill = &style.Fill{Color: c}
		}
		if strokeTbl, ok := subTable(textTbl, "stroke"); ok {
			stroke, err := parseStroke(strokeTbl)
			if err != nil {
				return st, fmt.Errorf("text stroke: %w", err)
			}
			text.Stroke = stroke
		}
		st.Text = text
	}

	return st, nil
}

func parseStroke(tbl *lua.LTable) (*style.Stroke, error) {
	c, err := colorField(tbl, "color")
	if err != nil {
		return nil, err
	}
	stroke := &style.Stroke{Color: c, Width: numberField(tbl, "width")}

	if dash, ok := subTable(tbl, "line_dash"); ok {
		dash.ForEach(func(_, item lua.LValue) {
			if n, ok := item.(lua.LNumber); ok {
				stroke.LineDash = append(stroke.LineDash, float64(n))
			}
		})
	}
	return stroke, nil
}

func subTable(tbl *lua.LTable, key string) (*lua.LTable, bool) {
	v := tbl.RawGetString(key)
	if v.Type() != lua.LTTable {
		return nil, false
	}
	return v.(*lua.LTable), true
}

func stringField(tbl *lua.LTable, key string) string {
	if v, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(v)
	}
	return ""
}

func numberField(tbl *lua.LTable, key string) float64 {
	if v, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return float64(v)
	}
	return 0
}

func colorField(tbl *lua.LTable, key string) (*style.Color, error) {
	s := stringField(tbl, key)
	if s == "" {
		return nil, fmt.Errorf("missing %s", key)
	}
	c, err := style.ParseHex(s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
