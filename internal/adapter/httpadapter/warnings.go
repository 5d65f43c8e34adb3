package httpadapter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/hluleko/smart-travel-planner/internal/domain"
)

type warningsResponse struct {
	Report          *domain.LocationWarningReport `json:"report"`
	Message         string                        `json:"message"`
	Matches         []domain.AllergyMatch         `json:"matches"`
	HighestSeverity domain.Severity               `json:"highestSeverity,omitempty"`
}

// handleWarnings simulates a warning report for ?location= (or the name of
// the saved ?destination_id=) and matches it against the allergies given as
// ?allergy= values, or against the profile of ?user_id= when the request
// carries a bearer token.
func (s *Server) handleWarnings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	location, err := s.requestLocation(r)
	if err != nil {
		s.logger.Error("load destination failed", "destination_id", q.Get("destination_id"), "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	if location == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "location is required"})
		return
	}

	allergies, err := s.requestAllergies(r)
	if err != nil {
		s.logger.Error("load user allergies failed", "user_id", q.Get("user_id"), "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	report := s.deps.Generator.Generate(location)
	if report == nil {
		s.deps.Metrics.WarningsGenerated.WithLabelValues("declined").Inc()
	} else {
		s.deps.Metrics.WarningsGenerated.WithLabelValues("issued").Inc()
		s.deps.Metrics.WarningAllergens.Observe(float64(len(report.Warnings)))
	}

	matches := domain.Match(allergies, report)
	s.deps.Metrics.AllergyMatches.Add(float64(len(matches)))

	message, _ := domain.Format(report)
	highest, _ := domain.HighestSeverity(matches)

	s.logger.Debug("allergy warnings generated",
		"location", location,
		"issued", report != nil,
		"matches", len(matches),
	)
	writeJSON(w, http.StatusOK, warningsResponse{
		Report:          report,
		Message:         message,
		Matches:         matches,
		HighestSeverity: highest,
	})
}

func bearerToken(r *http.Request) string {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func (s *Server) requestLocation(r *http.Request) (string, error) {
	q := r.URL.Query()
	if location := strings.TrimSpace(q.Get("location")); location != "" {
		return location, nil
	}

	destID := strings.TrimSpace(q.Get("destination_id"))
	token := bearerToken(r)
	if destID == "" || token == "" || s.deps.Destinations == nil {
		return "", nil
	}
	dest, err := s.deps.Destinations.GetDestinationByID(r.Context(), token, domain.ID(destID))
	if err != nil {
		return "", fmt.Errorf("fetch destination: %w", err)
	}
	return strings.TrimSpace(dest.Name), nil
}

func (s *Server) requestAllergies(r *http.Request) ([]domain.UserAllergy, error) {
	q := r.URL.Query()

	var allergies []domain.UserAllergy
	for _, name := range q["allergy"] {
		ua, err := domain.NewUserAllergy(name)
		if err != nil {
			continue
		}
		allergies = append(allergies, ua)
	}
	if len(allergies) > 0 || s.deps.Allergies == nil {
		return allergies, nil
	}

	userID := strings.TrimSpace(q.Get("user_id"))
	token := bearerToken(r)
	if userID == "" || token == "" {
		return nil, nil
	}

	allergies, err := s.deps.Allergies.UserAllergies(r.Context(), token, domain.ID(userID))
	if err != nil {
		return nil, fmt.Errorf("fetch user allergies: %w", err)
	}
	return domain.NamedAllergies(allergies), nil
}
