package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	RecordStoreMongo    = "mongo"
	RecordStorePostgres = "postgres"

	ObjectStoreCloudinary = "cloudinary"
	ObjectStoreS3         = "s3"
	ObjectStoreMinio      = "minio"
	ObjectStoreLocal      = "local"
)

type Config struct {
	Env         string            `yaml:"env" env:"ENV" env-default:"local"`
	HTTP        HTTPConfig        `yaml:"http"`
	RecordStore RecordStoreConfig `yaml:"record_store"`
	ObjectStore ObjectStoreConfig `yaml:"object_store"`
	Upload      UploadConfig      `yaml:"upload"`
	Redis       RedisConf         `yaml:"redis"`
}

type HTTPConfig struct {
	Host            string        `yaml:"host" env:"HTTP_HOST"`
	Port            string        `yaml:"port" env:"PORT" env-default:"4000"`
	Timeout         time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

type RecordStoreConfig struct {
	Driver   string         `yaml:"driver" env:"RECORD_STORE" env-default:"mongo"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Postgres PostgresConfig `yaml:"postgres"`
}

type MongoConfig struct {
	URI        string `yaml:"uri" env:"MONGODB_URI" env-default:"mongodb://localhost:27017"`
	Database   string `yaml:"database" env:"MONGODB_DATABASE" env-default:"photoshare"`
	Collection string `yaml:"collection" env-default:"photos"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn" env:"POSTGRES_DSN"`
}

type ObjectStoreConfig struct {
	Driver     string           `yaml:"driver" env:"OBJECT_STORE" env-default:"cloudinary"`
	Folder     string           `yaml:"folder" env-default:"astro-photos"`
	Cloudinary CloudinaryConfig `yaml:"cloudinary"`
	S3         S3Config         `yaml:"s3"`
	Minio      MinioConfig      `yaml:"minio"`
	Local      LocalConfig      `yaml:"local"`
}

type CloudinaryConfig struct {
	CloudName string `yaml:"cloud_name" env:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string `yaml:"api_key" env:"CLOUDINARY_API_KEY"`
	APISecret string `yaml:"api_secret" env:"CLOUDINARY_API_SECRET"`
}

type S3Config struct {
	Endpoint        string `yaml:"endpoint" env:"S3_ENDPOINT"`
	Region          string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	Bucket          string `yaml:"bucket" env:"S3_BUCKET"`
	AccessKeyID     string `yaml:"access_key_id" env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY"`
	UsePathStyle    bool   `yaml:"use_path_style" env:"S3_USE_PATH_STYLE"`
	PublicBaseURL   string `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL"`
}

type MinioConfig struct {
	Endpoint      string `yaml:"endpoint" env:"MINIO_HOST" env-default:"localhost:9000"`
	AccessKeyID   string `yaml:"access_key_id" env:"MINIO_ACCESS_KEY"`
	SecretKey     string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	Bucket        string `yaml:"bucket" env:"MINIO_BUCKET" env-default:"images"`
	UseSSL        bool   `yaml:"use_ssl" env:"MINIO_USE_SSL"`
	Region        string `yaml:"region" env:"MINIO_REGION" env-default:"us-east-1"`
	PublicBaseURL string `yaml:"public_base_url" env:"MINIO_PUBLIC_BASE_URL"`
}

type LocalConfig struct {
	BaseDir string `yaml:"base_dir" env-default:"./uploads"`
	BaseURL string `yaml:"base_url" env-default:"http://localhost:4000/uploads"`
}

type UploadConfig struct {
	MaxSize     int64 `yaml:"max_size" env:"UPLOAD_MAX_SIZE" env-default:"10485760"`
	StrictTypes bool  `yaml:"strict_types" env:"UPLOAD_STRICT_TYPES"`
}

type RedisConf struct {
	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string `yaml:"redispassword" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"REDIS_DB"`
}

// IsProduction определяет, можно ли отдавать клиенту текст внутренних ошибок
func (c *Config) IsProduction() bool {
	return c.Env == "prod"
}

func MustLoad() *Config {
	// .env не обязателен
	_ = godotenv.Load()

	path := fetchConfigPath()
	if path == "" {
		var cfg Config
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			panic("cannot read config from env: " + err.Error())
		}

		return mustValidate(&cfg)
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return mustValidate(&cfg)
}

func mustValidate(cfg *Config) *Config {
	if err := cfg.Validate(); err != nil {
		panic("invalid config: " + err.Error())
	}

	return cfg
}

// Validate проверяет, что выбранные драйверы сконфигурированы
func (c *Config) Validate() error {
	switch c.RecordStore.Driver {
	case RecordStoreMongo:
		if c.RecordStore.Mongo.URI == "" {
			return fmt.Errorf("record_store.mongo.uri is required")
		}
	case RecordStorePostgres:
		if c.RecordStore.Postgres.DSN == "" {
			return fmt.Errorf("record_store.postgres.dsn is required")
		}
	default:
		return fmt.Errorf("unknown record_store.driver %q", c.RecordStore.Driver)
	}

	switch c.ObjectStore.Driver {
	case ObjectStoreCloudinary:
		cld := c.ObjectStore.Cloudinary
		if cld.CloudName == "" || cld.APIKey == "" || cld.APISecret == "" {
			return fmt.Errorf("object_store.cloudinary credentials are required")
		}
	case ObjectStoreS3:
		if c.ObjectStore.S3.Bucket == "" {
			return fmt.Errorf("object_store.s3.bucket is required")
		}
	case ObjectStoreMinio:
		if c.ObjectStore.Minio.Bucket == "" {
			return fmt.Errorf("object_store.minio.bucket is required")
		}
	case ObjectStoreLocal:
		if c.ObjectStore.Local.BaseDir == "" {
			return fmt.Errorf("object_store.local.base_dir is required")
		}
	default:
		return fmt.Errorf("unknown object_store.driver %q", c.ObjectStore.Driver)
	}

	if c.Upload.MaxSize <= 0 {
		return fmt.Errorf("upload.max_size must be positive")
	}

	return nil
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
