package datasource

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	charts "github.com/midbel/dashcharts"
)

// DynamoDB scans a table, one record per item.
type DynamoDB struct {
	Table    string
	Fields   []string
	Region   string
	Endpoint string

	// Client replaces the client built from the default AWS configuration.
	Client dynamodb.ScanAPIClient
}

func (d DynamoDB) Load(ctx context.Context) ([]charts.Record, error) {
	client := d.Client
	if client == nil {
		c, err := d.newClient(ctx)
		if err != nil {
			return nil, err
		}
		client = c
	}
	input, err := d.scanInput()
	if err != nil {
		return nil, err
	}

	var (
		list      []charts.Record
		paginator = dynamodb.NewScanPaginator(client, input)
	)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", d.Table, err)
		}
		for _, item := range page.Items {
			var row map[string]any
			if err := attributevalue.UnmarshalMap(item, &row); err != nil {
				return nil, fmt.Errorf("scan %s: %w", d.Table, err)
			}
			list = append(list, charts.MakeRecord(row))
		}
	}
	return list, nil
}

func (d DynamoDB) scanInput() (*dynamodb.ScanInput, error) {
	input := dynamodb.ScanInput{
		TableName: aws.String(d.Table),
	}
	if len(d.Fields) == 0 {
		return &input, nil
	}
	var names []expression.NameBuilder
	for _, f := range d.Fields[1:] {
		names = append(names, expression.Name(f))
	}
	proj := expression.NamesList(expression.Name(d.Fields[0]), names...)
	expr, err := expression.NewBuilder().WithProjection(proj).Build()
	if err != nil {
		return nil, fmt.Errorf("projection: %w", err)
	}
	input.ProjectionExpression = expr.Projection()
	input.ExpressionAttributeNames = expr.Names()
	return &input, nil
}

func (d DynamoDB) newClient(ctx context.Context) (*dynamodb.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if d.Region != "" {
		opts = append(opts, awsconfig.WithRegion(d.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	var ddbOpts []func(*dynamodb.Options)
	if d.Endpoint != "" {
		ddbOpts = append(ddbOpts, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(d.Endpoint)
		})
	}
	return dynamodb.NewFromConfig(cfg, ddbOpts...), nil
}
