package transport

// cantonNames maps official two-letter codes to display names. The dataset
// also carries FL for the Liechtenstein localities served by Swiss Post.
// Codes outside this table are valid; they just render without a name.
var cantonNames = map[string]string{
	"AG": "Aargau",
	"AI": "Appenzell Innerrhoden",
	"AR": "Appenzell Ausserrhoden",
	"BE": "Bern",
	"BL": "Basel-Landschaft",
	"BS": "Basel-Stadt",
	"FR": "Fribourg",
	"GE": "Genève",
	"GL": "Glarus",
	"GR": "Graubünden",
	"JU": "Jura",
	"LU": "Luzern",
	"NE": "Neuchâtel",
	"NW": "Nidwalden",
	"OW": "Obwalden",
	"SG": "St. Gallen",
	"SH": "Schaffhausen",
	"SO": "Solothurn",
	"SZ": "Schwyz",
	"TG": "Thurgau",
	"TI": "Ticino",
	"UR": "Uri",
	"VD": "Vaud",
	"VS": "Valais",
	"ZG": "Zug",
	"ZH": "Zürich",
	"FL": "Fürstentum Liechtenstein",
}

// CantonName returns the display name for a canton code, or an empty string
// for codes without one.
func CantonName(code string) string {
	return cantonNames[code]
}
