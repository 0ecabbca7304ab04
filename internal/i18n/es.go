package i18n

// Spanish returns all Spanish text strings.
func Spanish() Messages {
	return Messages{
		FetchError:      "Error al cargar datos de gasolineras. Inténtalo de nuevo más tarde.",
		NoStationData:   "No se encontraron datos de gasolineras en la respuesta.",
		GeocodeError:    "No se pudo conectar al servicio de mapas. Por favor, intenta de nuevo.",
		NoGeocodeMatch:  "No se encontraron resultados para \"%s\". Intenta con otro nombre.",
		MissingLocation: "Por favor, introduce una ubicación para buscar.",
		CorruptSearch:   "No se pudo cargar la búsqueda guardada.",

		NoStationsFound:  "No se encontraron gasolineras en un radio de %g km.",
		ResultsSummary:   "Se encontraron %d estaciones en un radio de %g km.",
		ResultsNear:      "Mostrando resultados cerca de \"%s\"...",
		LastUpdated:      "Precios actualizados el:",
		CurrentLocation:  "tu ubicación actual",
		DistanceSuffix:   "km de distancia",
		PriceUnavailable: "N/D",

		Gasoline95:    "Gasolina 95",
		Gasoline98:    "Gasolina 98",
		Diesel:        "Diésel",
		PremiumDiesel: "Diésel Premium",
	}
}
