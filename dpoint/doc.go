/*

Package dpoint provides HTTP endpoints whose handlers receive dependencies
from a dibs registry.  A handler is an ordinary function whose first two
parameters are http.ResponseWriter and *http.Request; every parameter
after those is resolved from the registry each time a request arrives, so
singleton dependencies are shared across requests and instance
dependencies are fresh per request.

	reg := dibs.New()
	dibs.MustRegisterSingleton[*Metrics](reg)
	dpoint.MustRegisterRequestID(reg)

	router := chi.NewRouter()
	svc := dpoint.RegisterService("api", reg, router)
	svc.RegisterEndpoint("/health", func(
		w http.ResponseWriter,
		r *http.Request,
		metrics *Metrics,
		id dpoint.RequestID,
	) {
		...
	})

Handlers may also declare dibs.Keyed parameters to choose between keyed
implementations of an abstract base per request.

*/
package dpoint
