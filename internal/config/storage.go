package config

// Поддерживаемые хранилища изображений.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// StorageConfig описывает, куда сохраняются загруженные изображения сотрудников.
type StorageConfig struct {
	Backend      string `yaml:"backend" env:"EMPHUB_STORAGE_BACKEND" env-default:"local"`
	LocalDir     string `yaml:"local_dir" env:"EMPHUB_STORAGE_LOCAL_DIR" env-default:"uploads"`
	PublicPrefix string `yaml:"public_prefix" env:"EMPHUB_STORAGE_PUBLIC_PREFIX" env-default:"/uploads"`

	S3Endpoint        string `yaml:"s3_endpoint" env:"EMPHUB_S3_ENDPOINT" env-default:""`
	S3Region          string `yaml:"s3_region" env:"EMPHUB_S3_REGION" env-default:"us-east-1"`
	S3Bucket          string `yaml:"s3_bucket" env:"EMPHUB_S3_BUCKET" env-default:""`
	S3AccessKeyID     string `yaml:"s3_access_key_id" env:"EMPHUB_S3_ACCESS_KEY_ID" env-default:""`
	S3SecretAccessKey string `yaml:"s3_secret_access_key" env:"EMPHUB_S3_SECRET_ACCESS_KEY" env-default:""`
	S3UsePathStyle    bool   `yaml:"s3_use_path_style" env:"EMPHUB_S3_USE_PATH_STYLE" env-default:"true"`
	S3PublicBaseURL   string `yaml:"s3_public_base_url" env:"EMPHUB_S3_PUBLIC_BASE_URL" env-default:""`
}
