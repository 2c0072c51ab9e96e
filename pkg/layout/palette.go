package layout

// Color is a named CSS color.
type Color struct {
	Name string
	Hex  string
}

var colors = []Color{
	{Name: "darkorange", Hex: "#FF8C00"},
	{Name: "teal", Hex: "#008080"},
	{Name: "orchid", Hex: "#DA70D6"},
	{Name: "darkslateblue", Hex: "#483D8B"},
	{Name: "chocolate", Hex: "#D2691E"},
	{Name: "yellow", Hex: "#FFFF00"},
	{Name: "cornflowerblue", Hex: "#6495ED"},
	{Name: "palegreen", Hex: "#98FB98"},
	{Name: "hotpink", Hex: "#FF69B4"},
	{Name: "black", Hex: "#000000"},
	{Name: "coral", Hex: "#FF7F50"},
	{Name: "seagreen", Hex: "#2E8B57"},
	{Name: "crimson", Hex: "#DC143C"},
	{Name: "mediumblue", Hex: "#0000CD"},
	{Name: "gold", Hex: "#FFD700"},
	{Name: "fuchsia", Hex: "#FF00FF"},
}

var hatches = []string{"", "/", "x", "|", "O", "-", "*", `\`, "+", "o", "."}

// ColorFor returns the palette color for id, wrapping around the palette.
func ColorFor(id int) Color {
	return colors[wrap(id, len(colors))]
}

// HatchFor returns the hatch pattern for id, wrapping around the patterns.
func HatchFor(id int) string {
	return hatches[wrap(id, len(hatches))]
}

// PaletteSize returns the number of distinct colors.
func PaletteSize() int { return len(colors) }

// HatchCount returns the number of distinct hatch patterns.
func HatchCount() int { return len(hatches) }

func wrap(id, n int) int {
	return ((id % n) + n) % n
}
