package manager

import (
	"context"
	"net/url"
)

// Fetcher una carga independiente para poblar selects de un formulario.
type Fetcher struct {
	Name  string
	Fetch func(ctx context.Context) (any, error)
}

// Result resultado de un Fetcher. Cada uno trae su propio error.
type Result struct {
	Name  string
	Value any
	Err   error
}

// FetchList Fetcher que decodifica un GET en []T.
func FetchList[T any](client API, name, path string, query url.Values) Fetcher {
	return Fetcher{Name: name, Fetch: func(ctx context.Context) (any, error) {
		var out []T
		if err := client.Get(ctx, path, query, &out); err != nil {
			return nil, err
		}
		return out, nil
	}}
}

// LoadRelated lanza todas las cargas a la vez y espera a que terminen. Un error en una no
// cancela las demás; los resultados vienen en el mismo orden que fetchers.
func LoadRelated(ctx context.Context, fetchers ...Fetcher) []Result {
	type indexed struct {
		i int
		r Result
	}
	ch := make(chan indexed, len(fetchers))
	for i, f := range fetchers {
		go func() {
			v, err := f.Fetch(ctx)
			ch <- indexed{i: i, r: Result{Name: f.Name, Value: v, Err: err}}
		}()
	}
	out := make([]Result, len(fetchers))
	for range fetchers {
		res := <-ch
		out[res.i] = res.r
	}
	return out
}

// Value extrae el valor tipado de un Result; ok=false si hubo error o el tipo no coincide.
func Value[T any](r Result) (T, bool) {
	if r.Err != nil {
		var zero T
		return zero, false
	}
	v, ok := r.Value.(T)
	return v, ok
}
