package api

import "github.com/rubiojr/gasfinder/pkg/station"

// StationsResponse is the envelope returned by the fuel price feed. Station
// records stay loosely typed because the feed has used several key spellings
// over the years; pkg/station resolves them.
type StationsResponse struct {
	Fecha             string               `json:"Fecha"`
	ListaEESSPrecio   []station.RawStation `json:"ListaEESSPrecio"`
	Nota              string               `json:"Nota"`
	ResultadoConsulta string               `json:"ResultadoConsulta"`
}

// Municipality is one entry of the municipality listing feed.
type Municipality struct {
	IDMunicipio string `json:"IDMunicipio"`
	IDProvincia string `json:"IDProvincia"`
	Municipio   string `json:"Municipio"`
	Provincia   string `json:"Provincia"`
}
