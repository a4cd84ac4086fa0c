// Package autoadvisor provides a Go client for the AutoAdvisor recommendation
// backend: it sends vehicle search criteria and returns normalized recommendations.
//
//	client, _ := autoadvisor.New(autoadvisor.WithBaseURL("http://localhost:8000"))
//	recs, err := client.Search(ctx, autoadvisor.Criteria{
//	    PriceMax: autoadvisor.Int(15000),
//	    FuelType: autoadvisor.FuelDiesel,
//	})
//	if errors.Is(err, autoadvisor.ErrTimeout) {
//	    // the backend did not answer within the timeout (120s by default)
//	}
//
// Every record in a successful result has all fields populated: missing or
// wrongly typed backend values are replaced by defaults, never left nil.
package autoadvisor
