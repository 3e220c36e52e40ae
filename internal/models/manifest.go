package models

// AndroidManifestData holds the facts extracted from one AndroidManifest.xml
type AndroidManifestData struct {
	// Identity
	PackageName     string `json:"packageName,omitempty" yaml:"packageName,omitempty"`
	VersionCode     string `json:"versionCode,omitempty" yaml:"versionCode,omitempty"`
	InstallLocation string `json:"installLocation,omitempty" yaml:"installLocation,omitempty"`

	// Application components
	NumberOfActivities         int `json:"numberOfActivities" yaml:"numberOfActivities"`
	NumberOfServices           int `json:"numberOfServices" yaml:"numberOfServices"`
	NumberOfBroadcastReceivers int `json:"numberOfBroadcastReceivers" yaml:"numberOfBroadcastReceivers"`
	NumberOfContentProviders   int `json:"numberOfContentProviders" yaml:"numberOfContentProviders"`

	UsesPermissions []string `json:"usesPermissions" yaml:"usesPermissions"`
	UsesLibrary     []string `json:"usesLibrary" yaml:"usesLibrary"`
	UsesFeature     []string `json:"usesFeature" yaml:"usesFeature"`

	// Raw attribute values of <uses-sdk>
	UsesTargetSdkVersion string `json:"usesTargetSdkVersion" yaml:"usesTargetSdkVersion"`
	UsesMinSdkVersion    string `json:"usesMinSdkVersion" yaml:"usesMinSdkVersion"`
	UsesMaxSdkVersion    string `json:"usesMaxSdkVersion" yaml:"usesMaxSdkVersion"`

	// <supports-screens>
	SupportsScreensResizeable TriState `json:"supportsScreensResizeable" yaml:"supportsScreensResizeable"`
	SupportsScreensAnyDensity TriState `json:"supportsScreensAnyDensity" yaml:"supportsScreensAnyDensity"`
	SupportsScreensSmall      TriState `json:"supportsScreensSmall" yaml:"supportsScreensSmall"`
	SupportsScreensNormal     TriState `json:"supportsScreensNormal" yaml:"supportsScreensNormal"`
	SupportsScreensLarge      TriState `json:"supportsScreensLarge" yaml:"supportsScreensLarge"`
	SupportsScreensXlarge     TriState `json:"supportsScreensXlarge" yaml:"supportsScreensXlarge"`
}

// NewAndroidManifestData returns an empty record with non-nil lists
func NewAndroidManifestData() *AndroidManifestData {
	return &AndroidManifestData{
		UsesPermissions: []string{},
		UsesLibrary:     []string{},
		UsesFeature:     []string{},
	}
}
