package config

// UpstreamConfig describes the vehicle-tracking API
type UpstreamConfig struct {
	Mode               string            `yaml:"mode" validate:"required,oneof=csv json file"`
	CSVURL             string            `yaml:"csvURL" validate:"required_if=Mode csv,omitempty,url"`
	Query              map[string]string `yaml:"query"`
	CredentialsInQuery bool              `yaml:"credentialsInQuery"`
	AuthURL            string            `yaml:"authURL" validate:"omitempty,url"`
	LiveDataURL        string            `yaml:"liveDataURL" validate:"required_if=Mode json,omitempty,url"`
	TokenParam         string            `yaml:"tokenParam"`
	FilePath           string            `yaml:"filePath" validate:"required_if=Mode file"`
	FileFormat         string            `yaml:"fileFormat" validate:"omitempty,oneof=csv json"`
	Username           string            `yaml:"username"`
	Password           string            `yaml:"password"`
	TimeoutMS          int               `yaml:"timeoutMS" validate:"gte=0"`
	UserAgent          string            `yaml:"userAgent"`
	InsecureSkipVerify bool              `yaml:"insecureSkipVerify"`
	PinnedCertSHA256   string            `yaml:"pinnedCertSHA256" validate:"omitempty,hexadecimal,len=64"`
}

// BoundsConfig is the accepted geographic envelope, closed on both ends
type BoundsConfig struct {
	MinLat float64 `yaml:"minLat" validate:"gte=-90,lte=90"`
	MaxLat float64 `yaml:"maxLat" validate:"gte=-90,lte=90"`
	MinLng float64 `yaml:"minLng" validate:"gte=-180,lte=180"`
	MaxLng float64 `yaml:"maxLng" validate:"gte=-180,lte=180"`
}

// FieldPairConfig names a latitude and longitude column
type FieldPairConfig struct {
	Lat string `yaml:"lat" validate:"required"`
	Lng string `yaml:"lng" validate:"required"`
}

// ResolverConfig tunes coordinate recovery. Empty lists keep the defaults;
// overrides are merged over the default table.
type ResolverConfig struct {
	Bounds          *BoundsConfig              `yaml:"bounds"`
	Overrides       map[string]FieldPairConfig `yaml:"overrides" validate:"dive"`
	KnownPairs      []FieldPairConfig          `yaml:"knownPairs" validate:"dive"`
	WindowFields    []string                   `yaml:"windowFields"`
	MisplacedFields []string                   `yaml:"misplacedFields"`
}

// OutputConfig contains output file locations
type OutputConfig struct {
	SnapshotPath string `yaml:"snapshotPath"`
	TracksDir    string `yaml:"tracksDir"`
}

// SnapshotConfig contains snapshot options
type SnapshotConfig struct {
	Source     string `yaml:"source"`
	GTFSRTPath string `yaml:"gtfsrtPath"`
}

// TracksConfig contains daily track options
type TracksConfig struct {
	Store       string `yaml:"store" validate:"omitempty,oneof=file sqlite"`
	Timezone    string `yaml:"timezone"`
	Description string `yaml:"description"`
}

// StorageConfig contains the SQLite database settings
type StorageConfig struct {
	SQLitePath string `yaml:"sqlitePath"`
	RecordRuns bool   `yaml:"recordRuns"`
}

// LogConfig contains diagnostic log settings
type LogConfig struct {
	Path string `yaml:"path"`
}

// LockConfig contains run lock settings
type LockConfig struct {
	Disabled     bool `yaml:"disabled"`
	StaleAfterMS int  `yaml:"staleAfterMS" validate:"gte=0"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Upstream UpstreamConfig `yaml:"upstream" validate:"required"`
	Resolver ResolverConfig `yaml:"resolver"`
	Output   OutputConfig   `yaml:"output"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Tracks   TracksConfig   `yaml:"tracks"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
	Lock     LockConfig     `yaml:"lock"`
}
