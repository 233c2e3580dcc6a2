// Package pricing refreshes Node.Cost from AWS on-demand EC2 pricing, for
// nodes whose scenario YAML named an instance_type/region (spec §6.1). It
// is grounded on the teacher's internal/aws provider: the same
// config.LoadDefaultConfig + IMDS-disabled construction, narrowed from
// catalog discovery (DescribeInstanceTypes, spot price history) down to a
// single pricing.GetProducts on-demand lookup per node.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"

	"github.com/arnegilmore/microplace/internal/scenario"
)

// cacheTTL bounds how long a cached on-demand price is trusted before a
// refresh re-queries the Pricing API.
const cacheTTL = 24 * time.Hour

// productsAPI is the one Pricing API call this package needs, narrowed
// from the teacher's pricingAPI interface.
type productsAPI interface {
	GetProducts(ctx context.Context, params *pricing.GetProductsInput, optFns ...func(*pricing.Options)) (*pricing.GetProductsOutput, error)
}

// Enricher refreshes node costs from AWS's Price List Query API. The
// Pricing API is only ever served from us-east-1, regardless of the
// instance's own region, matching the teacher's NewAWSProvider comment.
type Enricher struct {
	client productsAPI
	cache  *fileCache
}

// New builds an Enricher using the default AWS SDK config chain, with
// EC2 instance-metadata lookups disabled so it never stalls when run
// outside EC2 (same rationale as the teacher's NewAWSProvider). When
// cacheDir is non-empty, on-demand prices are cached to disk for cacheTTL
// so repeated runs against the same scenario don't re-hit the API for
// every node.
func New(ctx context.Context, cacheDir string) (*Enricher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithEC2IMDSClientEnableState(imds.ClientDisabled),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS pricing config: %w", err)
	}
	e := &Enricher{client: pricing.NewFromConfig(cfg)}
	if cacheDir != "" {
		e.cache = newFileCache(cacheDir, cacheTTL)
	}
	return e, nil
}

// Refresh overwrites Cost on every node that names an InstanceType and
// Region, with its current AWS on-demand hourly price. Nodes missing
// either field are left untouched. It returns how many nodes were priced.
func (e *Enricher) Refresh(ctx context.Context, nodes []*scenario.Node) (int, error) {
	priced := 0
	for _, n := range nodes {
		if n.InstanceType == "" || n.Region == "" {
			continue
		}
		price, err := e.onDemandPrice(ctx, n.InstanceType, n.Region)
		if err != nil {
			continue
		}
		n.Cost = price
		priced++
	}
	return priced, nil
}

// onDemandPrice queries GetProducts for one instance type/region and
// extracts its on-demand hourly USD price from the nested
// terms.OnDemand.*.priceDimensions.*.pricePerUnit.USD structure the AWS
// Price List API returns as an opaque JSON string per result.
func (e *Enricher) onDemandPrice(ctx context.Context, instanceType, region string) (float64, error) {
	key := cacheKey(instanceType, region)
	if e.cache != nil {
		if price, ok := e.cache.get(key); ok {
			return price, nil
		}
	}

	price, err := e.fetchOnDemandPrice(ctx, instanceType, region)
	if err != nil {
		return 0, err
	}
	if e.cache != nil {
		_ = e.cache.set(key, price)
	}
	return price, nil
}

func (e *Enricher) fetchOnDemandPrice(ctx context.Context, instanceType, region string) (float64, error) {
	out, err := e.client.GetProducts(ctx, &pricing.GetProductsInput{
		ServiceCode: strPtr("AmazonEC2"),
		Filters: []types.Filter{
			{Type: types.FilterTypeTermMatch, Field: strPtr("instanceType"), Value: strPtr(instanceType)},
			{Type: types.FilterTypeTermMatch, Field: strPtr("location"), Value: strPtr(regionName(region))},
			{Type: types.FilterTypeTermMatch, Field: strPtr("operatingSystem"), Value: strPtr("Linux")},
			{Type: types.FilterTypeTermMatch, Field: strPtr("tenancy"), Value: strPtr("Shared")},
			{Type: types.FilterTypeTermMatch, Field: strPtr("preInstalledSw"), Value: strPtr("NA")},
			{Type: types.FilterTypeTermMatch, Field: strPtr("capacitystatus"), Value: strPtr("Used")},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("pricing GetProducts for %s in %s: %w", instanceType, region, err)
	}
	if len(out.PriceList) == 0 {
		return 0, fmt.Errorf("no price list entries for %s in %s", instanceType, region)
	}

	return extractOnDemandPrice(out.PriceList[0])
}

type priceListEntry struct {
	Terms struct {
		OnDemand map[string]struct {
			PriceDimensions map[string]struct {
				PricePerUnit struct {
					USD string `json:"USD"`
				} `json:"pricePerUnit"`
			} `json:"priceDimensions"`
		} `json:"OnDemand"`
	} `json:"terms"`
}

func extractOnDemandPrice(raw string) (float64, error) {
	var entry priceListEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return 0, fmt.Errorf("decoding price list entry: %w", err)
	}
	for _, offer := range entry.Terms.OnDemand {
		for _, dim := range offer.PriceDimensions {
			var price float64
			if _, err := fmt.Sscanf(dim.PricePerUnit.USD, "%f", &price); err != nil {
				continue
			}
			if price > 0 {
				return price, nil
			}
		}
	}
	return 0, fmt.Errorf("no on-demand price dimension found")
}

func strPtr(s string) *string { return &s }

// regionName maps an AWS region code to the "location" string the Price
// List API's location filter expects for the handful of regions this
// package is likely to see; unrecognized codes are passed through
// unchanged, which simply yields zero results rather than a wrong price.
func regionName(region string) string {
	names := map[string]string{
		"us-east-1": "US East (N. Virginia)",
		"us-east-2": "US East (Ohio)",
		"us-west-1": "US West (N. California)",
		"us-west-2": "US West (Oregon)",
		"eu-west-1": "EU (Ireland)",
		"eu-central-1": "EU (Frankfurt)",
	}
	if name, ok := names[region]; ok {
		return name
	}
	return region
}
