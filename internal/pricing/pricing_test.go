package pricing

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/pricing"

	"github.com/arnegilmore/microplace/internal/scenario"
)

type fakeProductsAPI struct {
	priceList []string
	err       error
}

func (f *fakeProductsAPI) GetProducts(ctx context.Context, params *pricing.GetProductsInput, optFns ...func(*pricing.Options)) (*pricing.GetProductsOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &pricing.GetProductsOutput{PriceList: f.priceList}, nil
}

const samplePriceListEntry = `{
  "terms": {
    "OnDemand": {
      "ABCD.JRTCKXETXF": {
        "priceDimensions": {
          "ABCD.JRTCKXETXF.6YS6EN2CT7": {
            "pricePerUnit": {"USD": "0.0960000000"}
          }
        }
      }
    }
  }
}`

func TestRefreshSetsNodeCost(t *testing.T) {
	e := &Enricher{client: &fakeProductsAPI{priceList: []string{samplePriceListEntry}}}

	nodes := []*scenario.Node{
		{Name: "n1", InstanceType: "m5.large", Region: "us-east-1"},
		{Name: "n2"}, // no instance type: must be left untouched
	}

	n, err := e.Refresh(context.Background(), nodes)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if n != 1 {
		t.Errorf("priced count = %d, want 1", n)
	}
	if nodes[0].Cost != 0.096 {
		t.Errorf("n1.Cost = %v, want 0.096", nodes[0].Cost)
	}
	if nodes[1].Cost != 0 {
		t.Errorf("n2.Cost should stay 0 without an instance type, got %v", nodes[1].Cost)
	}
}

func TestRefreshSkipsNodesOnAPIError(t *testing.T) {
	e := &Enricher{client: &fakeProductsAPI{err: errBoom{}}}

	nodes := []*scenario.Node{{Name: "n1", InstanceType: "m5.large", Region: "us-east-1", Cost: 5}}
	n, err := e.Refresh(context.Background(), nodes)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if n != 0 {
		t.Errorf("priced count = %d, want 0 on API error", n)
	}
	if nodes[0].Cost != 5 {
		t.Errorf("Cost should be left at its prior value on API error, got %v", nodes[0].Cost)
	}
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
