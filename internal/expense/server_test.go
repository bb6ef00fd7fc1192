package expense

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Server", func() {
	var (
		scanner    *mockScanner
		sheets     *mockSheetClient
		config     *MemoryConfig
		tracker    *Tracker
		auth       BasicAuth
		server     *Server
		testServer *httptest.Server
	)

	BeforeEach(func() {
		scanner = newMockScanner()
		sheets = newMockSheetClient()
		config = NewMemoryConfig()
		tracker = NewTrackerWithDeps(
			scanner, sheets, config,
			&mockIDGenerator{id: "tx-1"},
			&mockTimeSource{now: time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)},
			&mockSleeper{},
		)
		auth = BasicAuth{}
	})

	JustBeforeEach(func() {
		server = NewServerWithMux(tracker, auth, http.NewServeMux())
		testServer = httptest.NewServer(server)
	})

	AfterEach(func() {
		testServer.Close()
	})

	scanRequest := func() *http.Request {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		fw, err := w.CreateFormFile("file", "receipt.png")
		Expect(err).NotTo(HaveOccurred())
		_, err = fw.Write([]byte("fake image data"))
		Expect(err).NotTo(HaveOccurred())
		Expect(w.Close()).To(Succeed())

		req, err := http.NewRequest("POST", testServer.URL+"/api/scan", &buf)
		Expect(err).NotTo(HaveOccurred())
		req.Header.Set("Content-Type", w.FormDataContentType())
		return req
	}

	Describe("handleIndex", func() {
		It("should serve the single-screen UI", func() {
			resp, err := http.Get(testServer.URL + "/")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("Bill Scanner"))
		})
	})

	Describe("handleScan", func() {
		When("a receipt image is uploaded", func() {
			It("should return the extracted fields", func() {
				resp, err := http.DefaultClient.Do(scanRequest())
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				var result ScanResult
				Expect(json.NewDecoder(resp.Body).Decode(&result)).To(Succeed())
				Expect(result.Merchant).To(Equal("Test Store"))
				Expect(result.Amount).To(Equal(Amount(150.50)))
			})
		})

		When("the analyzer fails", func() {
			BeforeEach(func() {
				scanner.scanErr = errors.New("model unavailable")
			})

			It("should still return a usable record", func() {
				resp, err := http.DefaultClient.Do(scanRequest())
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				var result ScanResult
				Expect(json.NewDecoder(resp.Body).Decode(&result)).To(Succeed())
				Expect(result.Merchant).To(Equal("Error Reading Slip"))
				Expect(result.Category).To(Equal(CategoryOther))
			})
		})

		When("no file is provided", func() {
			It("should return status Bad Request", func() {
				var buf bytes.Buffer
				w := multipart.NewWriter(&buf)
				Expect(w.Close()).To(Succeed())

				req, err := http.NewRequest("POST", testServer.URL+"/api/scan", &buf)
				Expect(err).NotTo(HaveOccurred())
				req.Header.Set("Content-Type", w.FormDataContentType())

				resp, err := http.DefaultClient.Do(req)
				Expect(err).NotTo(HaveOccurred())
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			})
		})
	})

	Describe("handleConfirm", func() {
		post := func(body string) *http.Response {
			resp, err := http.Post(testServer.URL+"/api/transactions", "application/json", strings.NewReader(body))
			Expect(err).NotTo(HaveOccurred())
			return resp
		}

		When("the form is valid", func() {
			It("should create a transaction", func() {
				resp := post(`{"merchant":"Test Store","amount":150.5,"category":"Meals & Beverage","date":"2024-01-15"}`)
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusCreated))

				var result struct {
					Transaction Transaction `json:"transaction"`
					Sync        SyncResult  `json:"sync"`
				}
				Expect(json.NewDecoder(resp.Body).Decode(&result)).To(Succeed())
				Expect(result.Transaction.ID).To(Equal("tx-1"))
				Expect(result.Transaction.Amount).To(Equal(150.5))
				Expect(result.Sync.State).To(Equal(SyncSkipped))
			})
		})

		When("the amount arrives as a string", func() {
			It("should parse it as a float", func() {
				resp := post(`{"merchant":"Test Store","amount":"150.50","category":"Other"}`)
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusCreated))

				var result struct {
					Transaction Transaction `json:"transaction"`
				}
				Expect(json.NewDecoder(resp.Body).Decode(&result)).To(Succeed())
				Expect(result.Transaction.Amount).To(Equal(150.5))
			})
		})

		When("the merchant is missing", func() {
			It("should return status Unprocessable Entity", func() {
				resp := post(`{"merchant":"","amount":10}`)
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))
				Expect(tracker.Transactions()).To(BeEmpty())
			})
		})

		When("the body is not JSON", func() {
			It("should return status Bad Request", func() {
				resp := post(`not json`)
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			})
		})
	})

	Describe("handleListTransactions", func() {
		When("nothing has been confirmed", func() {
			It("should return an empty array", func() {
				resp, err := http.Get(testServer.URL + "/api/transactions")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				body, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(strings.TrimSpace(string(body))).To(Equal("[]"))
			})
		})

		When("transactions exist", func() {
			BeforeEach(func() {
				_, _, err := tracker.Confirm(ScanResult{Merchant: "Test Store", Amount: 10, Category: CategoryOther})
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return them", func() {
				resp, err := http.Get(testServer.URL + "/api/transactions")
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()

				var transactions []Transaction
				Expect(json.NewDecoder(resp.Body).Decode(&transactions)).To(Succeed())
				Expect(transactions).To(HaveLen(1))
				Expect(transactions[0].Merchant).To(Equal("Test Store"))
			})
		})
	})

	Describe("handleListCategories", func() {
		It("should return the twelve labels in order", func() {
			resp, err := http.Get(testServer.URL + "/api/categories")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			var labels []string
			Expect(json.NewDecoder(resp.Body).Decode(&labels)).To(Succeed())
			Expect(labels).To(HaveLen(12))
			Expect(labels[0]).To(Equal("Office Supplies"))
			Expect(labels[11]).To(Equal("Other"))
		})
	})

	Describe("settings", func() {
		It("should round-trip the webhook URL", func() {
			req, err := http.NewRequest("PUT", testServer.URL+"/api/settings", strings.NewReader(`{"sheetUrl":"https://example.com/hook"}`))
			Expect(err).NotTo(HaveOccurred())
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusNoContent))

			resp, err = http.Get(testServer.URL + "/api/settings")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			var settings map[string]string
			Expect(json.NewDecoder(resp.Body).Decode(&settings)).To(Succeed())
			Expect(settings).To(HaveKeyWithValue("sheetUrl", "https://example.com/hook"))
		})
	})

	Describe("basic auth", func() {
		BeforeEach(func() {
			auth = BasicAuth{Username: "user", Password: "pass"}
		})

		When("no credentials are provided", func() {
			It("should return status Unauthorized", func() {
				resp, err := http.Get(testServer.URL + "/api/transactions")
				Expect(err).NotTo(HaveOccurred())
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
			})
		})

		When("valid credentials are provided", func() {
			It("should serve the request", func() {
				req, err := http.NewRequest("GET", testServer.URL+"/api/transactions", nil)
				Expect(err).NotTo(HaveOccurred())
				req.SetBasicAuth("user", "pass")
				resp, err := http.DefaultClient.Do(req)
				Expect(err).NotTo(HaveOccurred())
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
			})
		})
	})
})
