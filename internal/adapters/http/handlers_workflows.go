package web

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"steward/internal/adapters/filestore"
	"steward/internal/adapters/http/middleware"
	"steward/internal/application/form"
	"steward/internal/application/format"
	"steward/internal/application/listutil"
	"steward/internal/application/orchestrators"
	"steward/internal/domain/attendance"
	"steward/internal/domain/member"
	"steward/internal/domain/validation"
)

// --- Check-in ---

// checkInRequest is the JSON body of POST /api/attendance/check-in.
type checkInRequest struct {
	ServiceType string `json:"service_type"`
	ServiceDate string `json:"service_date"` // YYYY-MM-DD; today when blank
	Kind        string `json:"kind"`
	PersonID    string `json:"person_id"`
	PersonName  string `json:"person_name"`
}

type checkInPerson struct {
	ID   string
	Name string
	Kind string
}

// checkInView is the data of check_in.html.
type checkInView struct {
	ServiceTypes []string
	Kinds        []string
	ServiceType  string
	Date         string
	People       []checkInPerson
	CheckedIn    []attendance.Attendance
	Error        string
}

// handleCheckInPage handles GET /attendance/check-in
func (s *server) handleCheckInPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.renderCheckIn(w, r, http.StatusOK, q.Get("service_type"), q.Get("date"), "")
}

func (s *server) renderCheckIn(w http.ResponseWriter, r *http.Request, status int, serviceType, date, message string) {
	ctx := r.Context()
	if serviceType == "" {
		serviceType = attendance.ServiceSunday
	}
	day, err := format.ParseDate(date)
	if err != nil {
		day = s.now()
		date = format.DateInput(day)
	}

	members, err := s.services.Members.List(ctx, listutil.FilterParams{Filters: map[string]string{"status": member.StatusActive}})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	visitors, err := s.services.Visitors.All(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	checkedIn, err := s.deps.Stores.Attendance.(serviceLister).ListForService(ctx, serviceType, day)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	view := checkInView{
		ServiceTypes: attendance.ServiceTypes,
		Kinds:        attendance.Kinds,
		ServiceType:  serviceType,
		Date:         date,
		Error:        message,
	}
	for _, m := range members {
		view.People = append(view.People, checkInPerson{ID: m.ID, Name: m.Name, Kind: attendance.KindMember})
	}
	for _, v := range visitors {
		view.People = append(view.People, checkInPerson{ID: v.ID, Name: v.Name, Kind: attendance.KindVisitor})
	}
	for _, a := range checkedIn {
		if format.DateInput(a.ServiceDate) == date {
			view.CheckedIn = append(view.CheckedIn, a)
		}
	}
	s.renderTemplate(w, r, "check_in.html", status, view)
}

// handleCheckIn handles POST /attendance/check-in and POST /api/attendance/check-in
func (s *server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	var req checkInRequest
	if isJSONBody(r) {
		if err := strictDecode(w, r, &req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		req = checkInRequest{
			ServiceType: r.FormValue("service_type"),
			ServiceDate: r.FormValue("service_date"),
			Kind:        r.FormValue("kind"),
			PersonID:    r.FormValue("person_id"),
			PersonName:  r.FormValue("person_name"),
		}
		// The person picker posts "kind:id".
		if kind, id, ok := strings.Cut(r.FormValue("person"), ":"); ok {
			req.Kind, req.PersonID = kind, id
		}
	}

	day := s.now()
	if req.ServiceDate != "" {
		parsed, err := format.ParseDate(req.ServiceDate)
		if err != nil {
			s.writeError(w, r, validation.Errors{"service_date": "must be a date (YYYY-MM-DD)"})
			return
		}
		day = parsed
	}

	a, err := orchestrators.ExecuteCheckIn(r.Context(), orchestrators.CheckInInput{
		ServiceType: req.ServiceType,
		ServiceDate: day,
		Kind:        req.Kind,
		PersonID:    req.PersonID,
		PersonName:  req.PersonName,
	}, s.checkInDeps())

	date := format.DateInput(day)
	if err != nil {
		var fields validation.Errors
		if isHTMLRequest(r) && (errors.Is(err, attendance.ErrAlreadyCheckedIn) || errors.As(err, &fields)) {
			status, body := classify(err)
			msg := body.Error
			if fields != nil {
				msg = fields.Error()
			}
			s.renderCheckIn(w, r, status, req.ServiceType, date, msg)
			return
		}
		s.writeError(w, r, err)
		return
	}

	q := url.Values{"service_type": {a.ServiceType}, "date": {date}}
	done(w, r, "/attendance/check-in?"+q.Encode(), http.StatusCreated, a)
}

// --- Visitor conversion ---

// handleConvertVisitor handles POST /visitors/{id}/convert
func (s *server) handleConvertVisitor(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Ministry string `json:"ministry"`
	}
	if isJSONBody(r) && r.ContentLength != 0 {
		if err := strictDecode(w, r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	} else {
		input.Ministry = r.FormValue("ministry")
	}

	m, err := orchestrators.ExecuteConvertVisitor(r.Context(), orchestrators.ConvertVisitorInput{
		VisitorID: r.PathValue("id"),
		Ministry:  input.Ministry,
	}, orchestrators.ConvertVisitorDeps{
		VisitorStore: s.deps.Stores.Visitors,
		MemberStore:  s.deps.Stores.Members,
		Now:          s.now,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	done(w, r, "/members/"+m.ID+"/edit", http.StatusCreated, m)
}

// --- Member status ---

// handleMemberStatus handles POST /members/{id}/deactivate and /members/{id}/reactivate
func (s *server) handleMemberStatus(deactivate bool) http.HandlerFunc {
	run := orchestrators.ExecuteReactivateMember
	if deactivate {
		run = orchestrators.ExecuteDeactivateMember
	}
	return func(w http.ResponseWriter, r *http.Request) {
		by := ""
		if m, ok := middleware.MarkerFromContext(r.Context()); ok {
			by = m.Email
		}
		m, err := run(r.Context(), orchestrators.MemberStatusInput{
			MemberID: r.PathValue("id"),
			By:       by,
		}, orchestrators.MemberStatusDeps{MemberStore: s.deps.Stores.Members})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		done(w, r, "/members", http.StatusOK, m)
	}
}

// --- Member import ---

// maxImportSize bounds an uploaded member CSV.
const maxImportSize = 5 << 20

// handleImportPage handles GET /members/import
func (s *server) handleImportPage(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, r, "import.html", http.StatusOK, map[string]any{})
}

// handleImportMembers handles POST /members/import and POST /api/members/import.
// Browsers upload multipart/form-data with a "file" part; API clients may
// also post text/csv with dry_run and update in the query.
func (s *server) handleImportMembers(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	input := orchestrators.ImportMembersInput{
		DryRun:     checked(r.URL.Query().Get("dry_run")),
		UpdateMode: checked(r.URL.Query().Get("update")),
	}
	if m, ok := middleware.MarkerFromContext(r.Context()); ok {
		input.By = m.Email
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImportSize); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				s.writeError(w, r, validation.Errors{"file": "must be 5 MB or smaller"})
				return
			}
			http.Error(w, "Invalid upload", http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll()
		file, _, err := r.FormFile("file")
		if err != nil {
			s.writeError(w, r, validation.Errors{"file": "is required"})
			return
		}
		defer file.Close()
		input.Reader = file
		input.DryRun = input.DryRun || checked(r.FormValue("dry_run"))
		input.UpdateMode = input.UpdateMode || checked(r.FormValue("update"))
	} else {
		input.Reader = r.Body
	}

	result, err := orchestrators.ExecuteImportMembers(r.Context(), input, orchestrators.ImportMembersDeps{
		MemberStore: s.deps.Stores.Members,
		Now:         s.now,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusOK, result)
		return
	}
	s.renderTemplate(w, r, "import.html", http.StatusOK, map[string]any{"Result": result})
}

// checked reports whether a checkbox or query flag is set.
func checked(v string) bool {
	switch strings.ToLower(v) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// --- Prayer update log ---

// handlePrayerUpdate handles POST /prayer-requests/{id}/updates
func (s *server) handlePrayerUpdate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Note   string `json:"note"`
		Status string `json:"status"`
	}
	if isJSONBody(r) {
		if err := strictDecode(w, r, &input); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	} else {
		input.Note = r.FormValue("note")
		input.Status = r.FormValue("status")
	}

	author := "Staff"
	if m, ok := middleware.MarkerFromContext(r.Context()); ok && m.Name != "" {
		author = m.Name
	}
	id := r.PathValue("id")
	req, err := orchestrators.ExecuteAddPrayerUpdate(r.Context(), orchestrators.AddPrayerUpdateInput{
		RequestID: id,
		Author:    author,
		Note:      input.Note,
		Status:    input.Status,
	}, orchestrators.AddPrayerUpdateDeps{PrayerStore: s.deps.Stores.Prayers, Now: s.now})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	done(w, r, "/prayer-requests/"+id+"/edit", http.StatusOK, req)
}

// --- Media upload ---

// maxMultipartMemory is the part of an upload kept in memory before spilling to disk.
const maxMultipartMemory = 32 << 20

// handleMediaUpload handles POST /media/upload (multipart/form-data)
func (s *server) handleMediaUpload(w http.ResponseWriter, r *http.Request) {
	if s.deps.Files == nil {
		s.writeError(w, r, orchestrators.ErrRetryable)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, filestore.MaxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, validation.Errors{"file": filestore.ErrTooLarge.Error()})
			return
		}
		http.Error(w, "Invalid upload", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, validation.Errors{"file": "is required"})
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "application/octet-stream" {
		mimeType = ""
	}
	uploader := ""
	if m, ok := middleware.MarkerFromContext(r.Context()); ok {
		uploader = m.Name
	}

	f, err := orchestrators.ExecuteUploadMedia(r.Context(), orchestrators.UploadMediaInput{
		Title:      r.FormValue("title"),
		Category:   r.FormValue("category"),
		Tags:       form.SplitList(r.FormValue("tags")),
		UploadedBy: uploader,
		FileName:   header.Filename,
		MimeType:   mimeType,
		Body:       file,
	}, orchestrators.UploadMediaDeps{
		Storage:    s.deps.Files,
		MediaStore: s.deps.Stores.Media,
		Now:        s.now,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	done(w, r, "/media", http.StatusCreated, f)
}

// --- Mail send ---

// handleSendMail handles POST /mail/{id}/send
func (s *server) handleSendMail(w http.ResponseWriter, r *http.Request) {
	em, err := orchestrators.ExecuteSendEmail(r.Context(), orchestrators.SendEmailInput{
		EmailID: r.PathValue("id"),
	}, orchestrators.SendEmailDeps{
		EmailStore:  s.deps.Stores.Emails,
		EmailSender: s.deps.Mailer,
		Now:         s.now,
		FromAddress: s.deps.Config.MailFrom,
		ReplyTo:     s.deps.Config.MailReplyTo,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	done(w, r, "/mail?folder=sent", http.StatusOK, em)
}
