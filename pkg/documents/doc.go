// Package documents collects the extracted documents that cross-source
// rules compare against the portal submission.
//
// A Source yields documents for one vendor keyed by doc_type. Three
// sources exist:
//
//   - FolderSource reads structured documents, raw OCR output and the
//     vendor master record from local folders
//   - S3Source reads structured documents from a bucket
//   - RegistrySource looks the vendor's commercial registration up in the
//     registry and yields a moc_certificate document
//
// Gatherer runs every source concurrently. A failing source is logged and
// skipped; when two sources return the same doc_type the earlier source in
// the list wins.
package documents
