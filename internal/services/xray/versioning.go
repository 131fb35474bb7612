package xray

import (
	"context"

	"github.com/bikeracer4487/xray-mcp/internal/models"
	"github.com/bikeracer4487/xray-mcp/internal/xrayerrors"
)

const getTestVersionsQuery = `
query GetTestVersions($issueId: String!) {
	getTest(issueId: $issueId) {
		testVersions(limit: 100) {
			results {
				id
				name
				default
				archived
				testType {
					name
					kind
				}
				lastModified
				steps {
					action
					data
					result
				}
				gherkin
				unstructured
				scenarioType
			}
		}
	}
}`

const archiveTestVersionMutation = `
mutation ArchiveTestVersion($issueId: String!, $versionId: Int!) {
	archiveTestVersion(issueId: $issueId, versionId: $versionId) {
		success
		archivedVersion {
			id
			name
			archived
			lastModified
		}
	}
}`

const restoreTestVersionMutation = `
mutation RestoreTestVersion($issueId: String!, $versionId: Int!) {
	restoreTestVersion(issueId: $issueId, versionId: $versionId) {
		success
		restoredVersion {
			id
			name
			archived
			lastModified
		}
		currentVersion {
			id
			name
			default
			testType {
				name
			}
		}
	}
}`

const createTestVersionFromMutation = `
mutation CreateTestVersionFrom($issueId: String!, $sourceVersionId: Int!) {
	createTestVersionFrom(issueId: $issueId, sourceVersionId: $sourceVersionId) {
		success
		newVersion {
			id
			name
			default
			archived
			testType {
				name
			}
			lastModified
		}
		sourceVersion {
			id
			name
			default
		}
	}
}`

// GetTestVersions lists every version of a test, archived versions included.
func (s *Service) GetTestVersions(ctx context.Context, issueID string) (map[string]any, error) {
	resolved, err := s.resolver.Resolve(ctx, issueID, models.KindTest)
	if err != nil {
		return nil, err
	}

	data, err := s.client.Execute(ctx, getTestVersionsQuery, map[string]any{"issueId": resolved})
	if err != nil {
		return nil, err
	}

	test, err := dataObject(data, "getTest", "test "+issueID)
	if err != nil {
		return nil, err
	}
	return dataPage(test, "testVersions")
}

// ArchiveTestVersion archives one version of a test.
func (s *Service) ArchiveTestVersion(ctx context.Context, issueID string, versionID int) (map[string]any, error) {
	if versionID <= 0 {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "version_id must be a positive integer")
	}

	resolved, err := s.resolver.Resolve(ctx, issueID, models.KindTest)
	if err != nil {
		return nil, err
	}

	variables := map[string]any{"issueId": resolved, "versionId": versionID}

	data, err := s.client.Execute(ctx, archiveTestVersionMutation, variables)
	if err != nil {
		return nil, err
	}

	return dataObject(data, "archiveTestVersion", "test version")
}

// RestoreTestVersion restores an archived version of a test.
func (s *Service) RestoreTestVersion(ctx context.Context, issueID string, versionID int) (map[string]any, error) {
	if versionID <= 0 {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "version_id must be a positive integer")
	}

	resolved, err := s.resolver.Resolve(ctx, issueID, models.KindTest)
	if err != nil {
		return nil, err
	}

	variables := map[string]any{"issueId": resolved, "versionId": versionID}

	data, err := s.client.Execute(ctx, restoreTestVersionMutation, variables)
	if err != nil {
		return nil, err
	}

	return dataObject(data, "restoreTestVersion", "test version")
}

// CreateTestVersionFrom creates a new test version copied from an existing
// one.
func (s *Service) CreateTestVersionFrom(ctx context.Context, issueID string, sourceVersionID int) (map[string]any, error) {
	if sourceVersionID <= 0 {
		return nil, xrayerrors.New(xrayerrors.KindValidation, "source_version_id must be a positive integer")
	}

	resolved, err := s.resolver.Resolve(ctx, issueID, models.KindTest)
	if err != nil {
		return nil, err
	}

	variables := map[string]any{"issueId": resolved, "sourceVersionId": sourceVersionID}

	data, err := s.client.Execute(ctx, createTestVersionFromMutation, variables)
	if err != nil {
		return nil, err
	}

	return dataObject(data, "createTestVersionFrom", "test version")
}
