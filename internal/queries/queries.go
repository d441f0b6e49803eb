// Package queries pulls every query module into the registry. Importing
// it for side effects is all a driver needs before queryreg.NewEngine.
package queries

import (
	_ "flightdata/internal/queries/aircrafttop"
	_ "flightdata/internal/queries/airlinedelays"
	_ "flightdata/internal/queries/airportinfo"
	_ "flightdata/internal/queries/natarrivals"
	_ "flightdata/internal/queries/topdepartures"
	_ "flightdata/internal/queries/topspenders"
)
