package config

// SQS holds the queue connection settings. The defaults target a local
// LocalStack instance, so both services run without any environment set.
type SQS struct {
	QueueURL        string `env:"SQS_QUEUE_URL" envDefault:"http://localhost:4566/000000000000/products-events"`
	Endpoint        string `env:"SQS_ENDPOINT" envDefault:"http://localhost:4566"`
	Region          string `env:"AWS_REGION" envDefault:"us-east-1"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" envDefault:"test"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" envDefault:"test"`
}
