package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-redis/redis"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/namsral/flag"
	opentracing "github.com/opentracing/opentracing-go"
	zipkin "github.com/openzipkin/zipkin-go-opentracing"

	"github.com/keel-framework/go-keel/aggregates"
	"github.com/keel-framework/go-keel/framework/keel"
	"github.com/keel-framework/go-keel/framework/lock"
	"github.com/keel-framework/go-keel/framework/repository"
	"github.com/keel-framework/go-keel/framework/storage/memory"
	redisstore "github.com/keel-framework/go-keel/framework/storage/redis"
)

// stdoutSink prints applied events, standing in for a real event bus.
type stdoutSink struct{}

func (stdoutSink) Publish(_ context.Context, ev keel.Event) error {
	log.Printf("event: %T %+v", ev, ev)
	return nil
}

func main() {

	var (
		listenAddr string
		redisAddr  string
		zipkinAddr string
	)

	flag.StringVar(&listenAddr, "listen_addr", fmt.Sprintf(":%s", os.Getenv("PORT")), "address to serve http on")
	flag.StringVar(&redisAddr, "redis_addr", "", "redis address for the persistence adapter, empty means in-memory")
	flag.StringVar(&zipkinAddr, "zipkin_addr", "http://localhost:9411/api/v1/spans", "zipkin collector endpoint")
	flag.Parse()

	collector, err := zipkin.NewHTTPCollector(zipkinAddr)
	if err != nil {
		log.Fatal(err)
	}
	defer collector.Close()

	tracer, err := zipkin.NewTracer(
		zipkin.NewRecorder(collector, true, listenAddr, "go-keel-demo-server"),
	)
	if err != nil {
		log.Fatal(err)
	}
	opentracing.SetGlobalTracer(tracer)

	var adapter keel.PersistenceAdapter
	if redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		if err := client.Ping().Err(); err != nil {
			log.Fatal("redis not reachable: ", err)
		}
		adapter = redisstore.NewAdapter(client, aggregates.DefaultManifest)
		log.Println("Using redis persistence adapter at", redisAddr)
	} else {
		adapter = memory.NewEmptyAdapter()
		log.Println("Using in-memory persistence adapter")
	}

	repo := repository.New("listing", adapter, lock.NewExclusive(),
		repository.WithEventSink(stdoutSink{}),
	)

	rMux := mux.NewRouter()
	srv := listingServer{repo: repo}
	rMux.HandleFunc("/listings", srv.create).Methods("POST")
	rMux.HandleFunc("/listings/{id}", srv.show).Methods("GET")
	rMux.HandleFunc("/listings/{id}/publish", srv.publish).Methods("POST")
	rMux.HandleFunc("/listings/{id}", srv.remove).Methods("DELETE")

	log.Println("Starting server on", listenAddr)
	log.Fatal(http.ListenAndServe(listenAddr, handlers.LoggingHandler(os.Stdout, rMux)))
}
