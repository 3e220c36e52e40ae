package manifest

import (
	"github.com/ralt/apkstats/internal/models"
	"github.com/ralt/apkstats/internal/xmldoc"
)

// pass fills a disjoint set of record fields from the document
type pass func(doc *xmldoc.Document, record *models.AndroidManifestData)

var passes = []pass{
	manifestTagData,
	appComponents,
	usedPermissions,
	usedLibraries,
	usedFeatures,
	usesSdk,
	supportsScreens,
}

func manifestTagData(doc *xmldoc.Document, record *models.AndroidManifestData) {
	el := doc.SingleElementByTag("manifest")
	if el == nil {
		return
	}
	record.PackageName, _ = xmldoc.NonEmptyStringAttribute(el, "package")
	record.VersionCode, _ = xmldoc.NonEmptyStringAttribute(el, "android:versionCode")
	record.InstallLocation, _ = xmldoc.NonEmptyStringAttribute(el, "android:installLocation")
}

// appComponents counts components anywhere in the document, without
// checking that they sit under <application>
func appComponents(doc *xmldoc.Document, record *models.AndroidManifestData) {
	record.NumberOfActivities = doc.CountByTag("activity")
	record.NumberOfServices = doc.CountByTag("service")
	record.NumberOfBroadcastReceivers = doc.CountByTag("receiver")
	record.NumberOfContentProviders = doc.CountByTag("provider")
}

func usedPermissions(doc *xmldoc.Document, record *models.AndroidManifestData) {
	record.UsesPermissions = doc.AttributeValuesByTag("uses-permission", "android:name")
}

func usedLibraries(doc *xmldoc.Document, record *models.AndroidManifestData) {
	record.UsesLibrary = doc.AttributeValuesByTag("uses-library", "android:name")
}

func usedFeatures(doc *xmldoc.Document, record *models.AndroidManifestData) {
	record.UsesFeature = doc.AttributeValuesByTag("uses-feature", "android:name")
}

// usesSdk keeps the raw attribute text, including empty values
func usesSdk(doc *xmldoc.Document, record *models.AndroidManifestData) {
	el := doc.SingleElementByTag("uses-sdk")
	if el == nil {
		return
	}
	record.UsesTargetSdkVersion = xmldoc.Attribute(el, "android:targetSdkVersion")
	record.UsesMinSdkVersion = xmldoc.Attribute(el, "android:minSdkVersion")
	record.UsesMaxSdkVersion = xmldoc.Attribute(el, "android:maxSdkVersion")
}

func supportsScreens(doc *xmldoc.Document, record *models.AndroidManifestData) {
	el := doc.SingleElementByTag("supports-screens")
	if el == nil {
		return
	}
	record.SupportsScreensResizeable = xmldoc.BooleanAttribute(el, "android:resizeable")
	record.SupportsScreensAnyDensity = xmldoc.BooleanAttribute(el, "android:anyDensity")
	record.SupportsScreensSmall = xmldoc.BooleanAttribute(el, "android:smallScreens")
	record.SupportsScreensNormal = xmldoc.BooleanAttribute(el, "android:normalScreens")
	record.SupportsScreensLarge = xmldoc.BooleanAttribute(el, "android:largeScreens")
	record.SupportsScreensXlarge = xmldoc.BooleanAttribute(el, "android:xlargeScreens")
}
