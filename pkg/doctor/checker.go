package doctor

import (
	"context"
	"fmt"
	"sync"

	"github.com/jaspreet-dot-casa/vyos-cloudinit/pkg/hostexec"
)

// Checker provides dependency checking functionality.
type Checker struct {
	executor  hostexec.Executor
	imagePath string // Path to the live rootfs image
}

// NewChecker creates a new Checker using exec to probe the host.
func NewChecker(exec hostexec.Executor) *Checker {
	return &Checker{executor: exec}
}

// SetImagePath sets the path to check for the live rootfs image.
func (c *Checker) SetImagePath(path string) {
	c.imagePath = path
}

// CheckAll runs all checks and returns groups with results.
func (c *Checker) CheckAll(ctx context.Context) []CheckGroup {
	var result []CheckGroup
	for _, group := range GetGroups() {
		result = append(result, c.CheckGroup(ctx, group.ID))
	}
	return result
}

// CheckAllAsync runs all checks concurrently and returns groups with results.
func (c *Checker) CheckAllAsync(ctx context.Context) []CheckGroup {
	groups := GetGroups()
	result := make([]CheckGroup, len(groups))
	var wg sync.WaitGroup

	for i, group := range groups {
		wg.Add(1)
		go func(idx int, g CheckGroup) {
			defer wg.Done()
			result[idx] = c.CheckGroup(ctx, g.ID)
		}(i, group)
	}

	wg.Wait()
	return result
}

// CheckGroup runs all checks for a specific group.
func (c *Checker) CheckGroup(ctx context.Context, groupID string) CheckGroup {
	def, ok := GetGroupDefinition(groupID)
	if !ok {
		return CheckGroup{
			ID:   groupID,
			Name: "Unknown",
		}
	}

	group := CheckGroup{
		ID:          groupID,
		Name:        def.Name,
		Description: def.Description,
	}

	for _, checkID := range def.CheckIDs {
		group.Checks = append(group.Checks, c.GetCheck(ctx, checkID))
	}

	return group
}

// GetCheck runs a single check by ID.
func (c *Checker) GetCheck(ctx context.Context, checkID string) Check {
	if checkID == IDLiveMedium {
		return CheckLiveMedium(c.executor, c.imagePath)
	}
	return CheckTool(ctx, c.executor, checkID)
}

// Summary represents an overall health summary.
type Summary struct {
	Total    int
	OK       int
	Missing  int
	Warnings int
	Errors   int
}

// GetSummary returns a summary of check results.
func (c *Checker) GetSummary(groups []CheckGroup) Summary {
	var summary Summary

	for _, group := range groups {
		for _, check := range group.Checks {
			summary.Total++
			switch check.Status {
			case StatusOK:
				summary.OK++
			case StatusMissing:
				summary.Missing++
			case StatusWarning:
				summary.Warnings++
			case StatusError:
				summary.Errors++
			}
		}
	}

	return summary
}

// HasIssues returns true if any checks have issues.
func (c *Checker) HasIssues(groups []CheckGroup) bool {
	summary := c.GetSummary(groups)
	return summary.Missing > 0 || summary.Errors > 0
}

// RunFix executes a fix command through the shell.
func (c *Checker) RunFix(ctx context.Context, fix *FixCommand) error {
	if fix == nil {
		return fmt.Errorf("no fix command available")
	}

	if err := c.executor.Run(ctx, "sh", "-c", fix.Command); err != nil {
		return fmt.Errorf("fix failed: %w", err)
	}
	return nil
}
