package api

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
	"github.com/fulldump/box/boxopenapi"

	"github.com/fulldump/listassistant/api/apilistv1"
	"github.com/fulldump/listassistant/service"
	"github.com/fulldump/listassistant/statics"
)

func Build(s service.Servicer, staticsDir, version string, apiKey, apiSecret string, enableCompression bool) *box.B {

	b := box.NewBox()
	if enableCompression {
		b.WithInterceptors(Compression)
	}

	v1 := b.Resource("/v1")
	v1.WithInterceptors(
		box.SetResponseHeader("Content-Type", "application/json"),
		Authenticate(apiKey, apiSecret),
	)

	apilistv1.BuildV1List(v1, s).
		WithInterceptors(
			injectServicer(s),
		)

	b.Resource("/v1/*").
		WithActions(box.AnyMethod(func(w http.ResponseWriter) interface{} {
			w.WriteHeader(http.StatusNotImplemented)
			return PrettyError{
				Message:     "not implemented",
				Description: "this endpoint does not exist, please check the documentation",
			}
		}))

	b.Resource("/release").
		WithActions(box.Get(func() string {
			return version
		}))

	b.Resource("/metrics").
		WithActions(box.Get(func(w http.ResponseWriter, r *http.Request) {
			s.Metrics().Handler().ServeHTTP(w, r)
		}).WithName("metrics"))

	spec := boxopenapi.Spec(b)
	spec.Info.Title = "ListAssistant"
	spec.Info.Description = "Sectioned, ordered lists of JSON documents that answer every change with the minimal batch of updates a list view needs."
	spec.Info.Contact = &boxopenapi.Contact{
		Url: "https://github.com/fulldump/listassistant/issues/new",
	}
	b.Handle("GET", "/openapi.json", func(r *http.Request) any {

		spec.Servers = []boxopenapi.Server{
			{
				Url: "https://" + r.Host,
			},
			{
				Url: "http://" + r.Host,
			},
		}

		return spec
	})

	// Mount statics
	b.Resource("/*").
		WithActions(
			box.Get(statics.ServeStatics(staticsDir)).WithName("serveStatics"),
		)

	return b
}

func injectServicer(s service.Servicer) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			next(apilistv1.SetServicer(ctx, s))
		}
	}
}
