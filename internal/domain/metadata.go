package domain

// ProjectMetadata holds the facts resolved about one harvester repository.
// An empty string means the fact could not be determined.
type ProjectMetadata struct {
	RootPath        string
	ProviderID      string
	DeveloperEmails []string
	RepositorySlug  string
}
