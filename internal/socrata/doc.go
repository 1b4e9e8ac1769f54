// Package socrata talks to the catalog of a Socrata open-data site and
// turns it into assets ready for download.
//
// The package handles three concerns:
//
//  1. Fetching and parsing the metadata catalog of a domain
//  2. Classifying each catalog entry as a table, a blob or unsupported
//  3. Building the export URL of an asset from its id and kind
//
// # Catalog
//
//	client := socrata.NewClient(socrata.NewEndpoints("data.cdc.gov"), httpClient)
//	catalog, err := client.FetchCatalog(ctx)
//	if err != nil {
//	    var fetchErr *socrata.MetadataFetchError
//	    errors.As(err, &fetchErr) // always true
//	}
//	for _, asset := range catalog.Assets {
//	    fmt.Println(asset.ID, asset.Kind)
//	}
//
// # Endpoints
//
// Socrata serves tabular exports and uploaded files from different paths:
//
//	{api}/views/metadata/v1            the catalog
//	{api}/views/{id}/rows.csv          tables
//	{download}/{id}/{blobMimeType}     blobs
//
// where {api} is https://{domain}/api and {download} is
// https://{domain}/download.
package socrata
