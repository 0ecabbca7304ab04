package i18n

// English returns all English text strings.
func English() Messages {
	return Messages{
		FetchError:      "Error loading fuel station data. Please try again later.",
		NoStationData:   "No fuel station data found in the response.",
		GeocodeError:    "Could not reach the mapping service. Please try again.",
		NoGeocodeMatch:  "No results found for \"%s\". Try a different name.",
		MissingLocation: "Please enter a location to search.",
		CorruptSearch:   "Could not load the saved search.",

		NoStationsFound:  "No fuel stations found within %g km.",
		ResultsSummary:   "Found %d stations within %g km.",
		ResultsNear:      "Showing results near \"%s\"...",
		LastUpdated:      "Fuel prices last updated:",
		CurrentLocation:  "your current location",
		DistanceSuffix:   "km away",
		PriceUnavailable: "N/A",

		Gasoline95:    "Gasoline 95",
		Gasoline98:    "Gasoline 98",
		Diesel:        "Diesel",
		PremiumDiesel: "Premium Diesel",
	}
}
