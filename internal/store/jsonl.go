// Package store reads and writes the append-only JSONL logs the pipeline
// persists to: one file per output stream, one self-contained JSON object
// per line. Consumers reload a whole file into a map keyed on the record's
// identity field, which makes restart-resume idempotent.
package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sodaslab/ghmarket/internal/scrape"
)

// Attempt marks a login the crawl has already tried, accepted or not.
type Attempt struct {
	UserLogin string `json:"user_login"`
}

// CompanyEntry marks a company query the crawl has finished.
type CompanyEntry struct {
	CompanyName string `json:"company_name"`
}

// Resolution is one manual disambiguation decision.
type Resolution struct {
	UserLogin       string `json:"user_login"`
	ResolvedCompany string `json:"resolved_company"`
}

func appendLine(path string, v any) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal record for %s: %w", path, err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append to %s: %w", path, err)
	}
	return nil
}

// eachLine streams a JSONL file line by line. A missing file is not an
// error: the stream just has no records yet.
func eachLine(path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		if err := fn(scanner.Bytes()); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// AppendUser appends one accepted user record.
func AppendUser(path string, rec *scrape.UserRecord) error {
	return appendLine(path, rec)
}

// LoadUsers reloads the user stream keyed by login. Later lines win, so a
// re-crawled user supersedes its earlier record.
func LoadUsers(path string) (map[string]*scrape.UserRecord, error) {
	users := make(map[string]*scrape.UserRecord)
	err := eachLine(path, func(line []byte) error {
		var rec scrape.UserRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return fmt.Errorf("parse user record: %w", err)
		}
		if rec.Login != "" {
			users[rec.Login] = &rec
		}
		return nil
	})
	return users, err
}

// AppendAttempt logs a scrape attempt for a login.
func AppendAttempt(path, login string) error {
	return appendLine(path, Attempt{UserLogin: login})
}

// LoadAttempts reloads the attempted-login set.
func LoadAttempts(path string) (map[string]bool, error) {
	attempts := make(map[string]bool)
	err := eachLine(path, func(line []byte) error {
		var a Attempt
		if err := json.Unmarshal(line, &a); err != nil {
			return fmt.Errorf("parse attempt record: %w", err)
		}
		if a.UserLogin != "" {
			attempts[a.UserLogin] = true
		}
		return nil
	})
	return attempts, err
}

// AppendCompany logs a finished company query.
func AppendCompany(path, company string) error {
	return appendLine(path, CompanyEntry{CompanyName: company})
}

// LoadCompanies reloads the finished-company set.
func LoadCompanies(path string) (map[string]bool, error) {
	companies := make(map[string]bool)
	err := eachLine(path, func(line []byte) error {
		var c CompanyEntry
		if err := json.Unmarshal(line, &c); err != nil {
			return fmt.Errorf("parse company record: %w", err)
		}
		if c.CompanyName != "" {
			companies[c.CompanyName] = true
		}
		return nil
	})
	return companies, err
}

// AppendResolution appends one manual resolution decision.
func AppendResolution(path string, res Resolution) error {
	return appendLine(path, res)
}

// LoadResolutions reloads the resolution log keyed by login.
func LoadResolutions(path string) (map[string]string, error) {
	resolved := make(map[string]string)
	err := eachLine(path, func(line []byte) error {
		var res Resolution
		if err := json.Unmarshal(line, &res); err != nil {
			return fmt.Errorf("parse resolution record: %w", err)
		}
		if res.UserLogin != "" {
			resolved[res.UserLogin] = res.ResolvedCompany
		}
		return nil
	})
	return resolved, err
}
