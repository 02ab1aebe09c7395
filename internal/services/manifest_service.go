package services

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/sirupsen/logrus"

	"github.com/rotaserra/tour-backend/internal/database"
	"github.com/rotaserra/tour-backend/internal/models"
)

// ManifestService renders printable trip manifests: the passenger roster and
// the cargo list, each as a PDF handed to drivers before departure.
type ManifestService struct {
	tripRepo  *database.TripRepository
	entryRepo *database.PassengerEntryRepository
	cargoRepo *database.CargoEntryRepository
	logger    *logrus.Logger
}

// NewManifestService creates a new ManifestService
func NewManifestService(
	tripRepo *database.TripRepository,
	entryRepo *database.PassengerEntryRepository,
	cargoRepo *database.CargoEntryRepository,
	logger *logrus.Logger,
) *ManifestService {
	return &ManifestService{
		tripRepo:  tripRepo,
		entryRepo: entryRepo,
		cargoRepo: cargoRepo,
		logger:    logger,
	}
}

// RosterManifest renders the passenger roster of a trip as a PDF, in the
// roster's manual sort order. Returns the document and a suggested filename.
func (s *ManifestService) RosterManifest(tripID string) ([]byte, string, error) {
	trip, err := s.getTrip(tripID)
	if err != nil {
		return nil, "", err
	}
	entries, err := s.entryRepo.ListByTrip(tripID)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Passenger Roster", false)
	pdf.AddPage()

	writeManifestHeader(pdf, "PASSENGER ROSTER", trip)

	headers := []string{"#", "Passenger", "National ID", "Seat", "Price", "Paid", "Group"}
	widths := []float64{10, 70, 45, 35, 30, 20, 45}
	writeManifestTableHeader(pdf, headers, widths)

	pdf.SetFont("Helvetica", "", 10)
	for i, e := range entries {
		seat := "-"
		if e.SeatNumber != nil {
			seat = *e.SeatNumber
		}
		group := "-"
		if e.GroupID != nil {
			group = shortID(*e.GroupID)
		}
		writeManifestRow(pdf, []string{
			fmt.Sprintf("%d", i+1),
			e.PersonName,
			e.PersonNationalID,
			seat,
			fmt.Sprintf("%.2f", e.Price),
			yesNo(e.Paid),
			group,
		}, widths)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render roster manifest: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"trip_id":    tripID,
		"passengers": len(entries),
	}).Info("Roster manifest generated")

	filename := fmt.Sprintf("roster_%s_%s.pdf", trip.DepartureAt.Format("2006-01-02"), shortID(tripID))
	return buf.Bytes(), filename, nil
}

// CargoManifest renders the cargo list of a trip as a PDF
func (s *ManifestService) CargoManifest(tripID string) ([]byte, string, error) {
	trip, err := s.getTrip(tripID)
	if err != nil {
		return nil, "", err
	}
	entries, err := s.cargoRepo.ListByTrip(tripID)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Cargo Manifest", false)
	pdf.AddPage()

	writeManifestHeader(pdf, "CARGO MANIFEST", trip)

	headers := []string{"#", "Description", "Weight (kg)", "Sender", "Recipient", "Price", "Paid"}
	widths := []float64{10, 75, 25, 55, 55, 25, 15}
	writeManifestTableHeader(pdf, headers, widths)

	pdf.SetFont("Helvetica", "", 10)
	for i, e := range entries {
		writeManifestRow(pdf, []string{
			fmt.Sprintf("%d", i+1),
			e.Description,
			fmt.Sprintf("%.1f", e.WeightKg),
			e.SenderName,
			e.RecipientName,
			fmt.Sprintf("%.2f", e.Price),
			yesNo(e.Paid),
		}, widths)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render cargo manifest: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"trip_id": tripID,
		"cargo":   len(entries),
	}).Info("Cargo manifest generated")

	filename := fmt.Sprintf("cargo_%s_%s.pdf", trip.DepartureAt.Format("2006-01-02"), shortID(tripID))
	return buf.Bytes(), filename, nil
}

func (s *ManifestService) getTrip(tripID string) (*models.Trip, error) {
	trip, err := s.tripRepo.GetByID(tripID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewReferenceNotFound("trip", tripID)
		}
		return nil, err
	}
	return trip, nil
}

func writeManifestHeader(pdf *gofpdf.Fpdf, title string, trip *models.Trip) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Departure: %s", trip.DepartureAt.Format("2006-01-02 15:04")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Arrival:   %s", trip.ArrivalAt.Format("2006-01-02 15:04")))
	pdf.Ln(10)
}

func writeManifestTableHeader(pdf *gofpdf.Fpdf, headers []string, widths []float64) {
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}

func writeManifestRow(pdf *gofpdf.Fpdf, row []string, widths []float64) {
	for i, cell := range row {
		pdf.CellFormat(widths[i], 7, truncate(cell, 40), "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) > max {
		return s[:max]
	}
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
