package relayer

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"stellar-gasless-go/internal/models"
)

func TestCreateSmartAccount(t *testing.T) {
	service, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/relayer/stellar/c-address/create" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("Bad create body: %v", err)
		}
		if body["ownerGAddress"] != "GOWNER" {
			t.Errorf("Create body = %v, want ownerGAddress field", body)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "cAddress": "CCONTRACT"})
	}))

	cAddress, err := service.CreateSmartAccount(context.Background(), "GOWNER")
	if err != nil {
		t.Fatalf("CreateSmartAccount failed: %v", err)
	}
	if cAddress != "CCONTRACT" {
		t.Errorf("Unexpected address: %s", cAddress)
	}
}

func TestSmartAccountBalance(t *testing.T) {
	service, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/relayer/stellar/c-address/balance/CCONTRACT" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"balances": []map[string]string{
				{"asset": "XLM", "balance": "12.0000000"},
			},
		})
	}))

	balances, err := service.SmartAccountBalance(context.Background(), "CCONTRACT")
	if err != nil {
		t.Fatalf("SmartAccountBalance failed: %v", err)
	}
	if len(balances) != 1 || balances[0].Asset != "XLM" {
		t.Errorf("Unexpected balances: %+v", balances)
	}
}

func TestLookupSmartAccount(t *testing.T) {
	service, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/relayer/stellar/c-address/lookup/GOWNER" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "cAddress": "CCONTRACT"})
	}))

	cAddress, err := service.LookupSmartAccount(context.Background(), "GOWNER")
	if err != nil {
		t.Fatalf("LookupSmartAccount failed: %v", err)
	}
	if cAddress != "CCONTRACT" {
		t.Errorf("Unexpected address: %s", cAddress)
	}
}

func TestLookupSmartAccountNoneDeployed(t *testing.T) {
	service, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))

	cAddress, err := service.LookupSmartAccount(context.Background(), "GOWNER")
	if err != nil {
		t.Fatalf("LookupSmartAccount failed: %v", err)
	}
	if cAddress != "" {
		t.Errorf("Expected no address for a fresh owner, got %s", cAddress)
	}
}

// History entries arrive under the relayer's wire keys, txHash included.
func TestSmartAccountHistory(t *testing.T) {
	service, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/relayer/stellar/c-address/history/CCONTRACT" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("limit") != "20" {
			t.Errorf("Expected limit=20, got query %q", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"transactions": []map[string]interface{}{
				{
					"type":         "sent",
					"asset":        "XLM",
					"amount":       "5.0000000",
					"counterparty": "GDEST",
					"txHash":       "deadbeef",
					"timestamp":    "2025-08-30T12:00:00Z",
					"ledger":       123456,
				},
			},
		})
	}))

	entries, err := service.SmartAccountHistory(context.Background(), "CCONTRACT", 0)
	if err != nil {
		t.Fatalf("SmartAccountHistory failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Hash != "deadbeef" {
		t.Errorf("Hash = %q, want deadbeef", entries[0].Hash)
	}
	if entries[0].Counterparty != "GDEST" || entries[0].Ledger != 123456 {
		t.Errorf("Unexpected entry: %+v", entries[0])
	}
}

func TestSmartAccountHistoryCustomLimit(t *testing.T) {
	service, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "5" {
			t.Errorf("Expected limit=5, got query %q", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "transactions": []map[string]string{}})
	}))

	if _, err := service.SmartAccountHistory(context.Background(), "CCONTRACT", 5); err != nil {
		t.Fatalf("SmartAccountHistory failed: %v", err)
	}
}

// The smart-account flow splits building and submitting: the relayer
// returns an unsigned envelope, the owner signs, the relayer co-signs
// and submits.
func TestSmartTransferBuildThenSubmit(t *testing.T) {
	service, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/relayer/stellar/c-address/build-transfer":
			var req models.SmartTransferRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("Bad build request: %v", err)
			}
			if req.CAddress != "CCONTRACT" || req.Amount != "5" {
				t.Errorf("Unexpected build request: %+v", req)
			}
			json.NewEncoder(w).Encode(map[string]string{"unsignedXDR": "unsigned-envelope"})
		case "/api/v1/relayer/stellar/c-address/submit-transfer":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["signedXDR"] != "signed-envelope" {
				t.Errorf("Unexpected submit body: %v", body)
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "txHash": "feed01"})
		default:
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
	}))

	unsigned, err := service.BuildSmartTransfer(context.Background(), models.SmartTransferRequest{
		From:        "GOWNER",
		CAddress:    "CCONTRACT",
		Destination: "GDEST",
		Asset:       "XLM",
		Amount:      "5",
	})
	if err != nil {
		t.Fatalf("BuildSmartTransfer failed: %v", err)
	}
	if unsigned != "unsigned-envelope" {
		t.Errorf("Unexpected envelope: %s", unsigned)
	}

	result := service.SubmitSmartTransfer(context.Background(), "signed-envelope")
	if !result.Success || result.Hash != "feed01" {
		t.Errorf("Unexpected submit result: %+v", result)
	}
}

// The success flag alone decides the outcome; a stray txHash on a
// failed envelope must not read as success.
func TestSubmitSmartTransferRejectsUnsuccessfulEnvelope(t *testing.T) {
	service, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"txHash":  "feed01",
			"error":   "owner signature invalid",
		})
	}))

	result := service.SubmitSmartTransfer(context.Background(), "signed-envelope")
	if result.Success {
		t.Fatal("success:false must fail regardless of other fields")
	}
	if result.Error != "owner signature invalid" {
		t.Errorf("Error = %q, want the relayer message verbatim", result.Error)
	}
	if result.Transport {
		t.Error("A relayer rejection is not a transport failure")
	}
}

func TestSmartTransferBuildFailure(t *testing.T) {
	service, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "zero balance"})
	}))

	_, err := service.BuildSmartTransfer(context.Background(), models.SmartTransferRequest{CAddress: "CCONTRACT"})
	if err == nil {
		t.Fatal("Expected build failure")
	}
}
