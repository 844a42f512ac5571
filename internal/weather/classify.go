package weather

// adverseCodes is the fixed set of WeatherAPI.com condition codes considered
// hazardous. Membership is exact: no ranges, no fuzzy matching, and any code
// outside the table is non-adverse.
var adverseCodes = map[int]struct{}{
	// Rain, snow, ice
	1063: {}, 1066: {}, 1069: {}, 1072: {}, 1087: {}, 1114: {}, 1117: {},
	// Fog
	1135: {}, 1147: {},
	// Drizzle and rain
	1150: {}, 1153: {}, 1168: {}, 1171: {}, 1180: {}, 1183: {}, 1186: {}, 1189: {}, 1192: {}, 1195: {},
	// Freezing rain and snow
	1198: {}, 1201: {}, 1204: {}, 1207: {}, 1210: {}, 1213: {}, 1216: {}, 1219: {}, 1222: {}, 1225: {},
	// Hail and snow
	1237: {}, 1240: {}, 1243: {}, 1246: {}, 1249: {}, 1252: {}, 1255: {}, 1258: {}, 1261: {}, 1264: {},
	// Storms
	1273: {}, 1276: {}, 1279: {}, 1282: {},
}

// IsAdverse reports whether a provider condition code identifies adverse
// weather (rain, snow, ice, fog, drizzle, hail, or storms).
func IsAdverse(code int) bool {
	_, ok := adverseCodes[code]
	return ok
}
